package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookloop/library-service/library/internal/errs"
	"github.com/bookloop/library-service/library/internal/handler"
	"github.com/bookloop/library-service/library/internal/model"
	"github.com/bookloop/library-service/pkg/auth"
	"github.com/bookloop/library-service/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/bookloop/library-service/library/internal/handler/mocks"
)

func authContextMW(userID int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(auth.SetAuthContext(req.Context(), userID, auth.RoleUser)))
			return next(c)
		}
	}
}

func TestHandler_BorrowBook(t *testing.T) {
	t.Parallel()
	type input struct {
		bookID string
		userID int64
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService, req input)

	borrowedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService, req input) {
				r.EXPECT().
					BorrowBook(gomock.Any(), int64(1), req.userID).
					Return(model.BorrowEvent{
						ID:         1,
						BorrowUid:  "9f0a0d2c-6a5d-4b9e-8e5e-4a9c2b1d0e3f",
						BookID:     1,
						UserID:     req.userID,
						BorrowedAt: borrowedAt,
					}, nil)
			},
			input: input{bookID: "1", userID: 7},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":1,"borrowUid":"9f0a0d2c-6a5d-4b9e-8e5e-4a9c2b1d0e3f","bookId":1,"userId":7,"borrowedAt":"2024-05-01T10:00:00Z"}`,
			},
		},
		{
			name:         "err. invalid book id",
			mockBehavior: func(r *service_mocks.MockBookService, req input) {},
			input:        input{bookID: "abc", userID: 7},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid book id"}`,
			},
			wantErr: true,
		},
		{
			name: "err. not found",
			mockBehavior: func(r *service_mocks.MockBookService, req input) {
				r.EXPECT().
					BorrowBook(gomock.Any(), int64(42), req.userID).
					Return(model.BorrowEvent{}, errs.ErrNotFound)
			},
			input: input{bookID: "42", userID: 7},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
			wantErr: true,
		},
		{
			name: "err. already borrowed",
			mockBehavior: func(r *service_mocks.MockBookService, req input) {
				r.EXPECT().
					BorrowBook(gomock.Any(), int64(1), req.userID).
					Return(model.BorrowEvent{}, errors.Wrap(errs.ErrConflict, "book already borrowed"))
			},
			input: input{bookID: "1", userID: 9},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book already borrowed: conflict"}`,
			},
			wantErr: true,
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockBookService, req input) {
				r.EXPECT().
					BorrowBook(gomock.Any(), int64(1), req.userID).
					Return(model.BorrowEvent{}, errors.New("db internal"))
			},
			input: input{bookID: "1", userID: 7},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/books/:id/borrow", h.BorrowBook, authContextMW(tt.input.userID))

			r := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/books/%s/borrow", tt.input.bookID), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	createdAt := time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		bookID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			bookID: "1",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					GetBook(gomock.Any(), int64(1)).
					Return(model.Book{
						ID:        1,
						Title:     "The Go Programming Language",
						Author:    "Donovan, Kernighan",
						Genre:     "Programming",
						Status:    model.StatusAvailable,
						CreatedAt: createdAt,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":1,"title":"The Go Programming Language","author":"Donovan, Kernighan","genre":"Programming","status":"available","createdAt":"2024-04-02T09:30:00Z"}`,
			},
		},
		{
			name:   "err. gone",
			bookID: "2",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					GetBook(gomock.Any(), int64(2)).
					Return(model.Book{}, errs.ErrGone)
			},
			response: response{
				expectedCode: http.StatusGone,
				expectedBody: `{"message":"gone"}`,
			},
		},
		{
			name:   "err. not found",
			bookID: "3",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					GetBook(gomock.Any(), int64(3)).
					Return(model.Book{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			h := handler.New(svc, nil, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/books/:id", h.GetBook)

			r := httptest.NewRequest(http.MethodGet, "/books/"+tt.bookID, http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_UpdateBook(t *testing.T) {
	t.Parallel()
	type input struct {
		bookID string
		body   string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	createdAt := time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				title := "Renamed"
				r.EXPECT().
					UpdateBook(gomock.Any(), int64(1), model.UpdateBookRequest{Title: &title}).
					Return(model.Book{
						ID:        1,
						Title:     "Renamed",
						Author:    "Donovan, Kernighan",
						Genre:     "Programming",
						Status:    model.StatusAvailable,
						CreatedAt: createdAt,
					}, nil)
			},
			input: input{bookID: "1", body: `{"title":"Renamed"}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":1,"title":"Renamed","author":"Donovan, Kernighan","genre":"Programming","status":"available","createdAt":"2024-04-02T09:30:00Z"}`,
			},
		},
		{
			name: "err. no recognized fields",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					UpdateBook(gomock.Any(), int64(1), model.UpdateBookRequest{}).
					Return(model.Book{}, errors.Wrap(errs.ErrInvalidInput, "no valid fields provided for update"))
			},
			input: input{bookID: "1", body: `{"publisher":"unknown"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"no valid fields provided for update: invalid input"}`,
			},
		},
		{
			name: "err. borrowed book is frozen",
			mockBehavior: func(r *service_mocks.MockBookService) {
				status := model.StatusAvailable
				r.EXPECT().
					UpdateBook(gomock.Any(), int64(1), model.UpdateBookRequest{Status: &status}).
					Return(model.Book{}, errors.Wrap(errs.ErrConflict, "cannot update a borrowed book"))
			},
			input: input{bookID: "1", body: `{"status":"available"}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"cannot update a borrowed book: conflict"}`,
			},
		},
		{
			name:         "err. invalid status value",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			input:        input{bookID: "1", body: `{"status":"lost"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'UpdateBookRequest.Status' Error:Field validation for 'Status' failed on the 'oneof' tag"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			h := handler.New(svc, nil, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.PATCH("/admin/books/:id", h.UpdateBook)

			r := httptest.NewRequest(http.MethodPatch, "/admin/books/"+tt.input.bookID, strings.NewReader(tt.input.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_DeleteBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	var tests = []struct {
		name         string
		bookID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			bookID: "1",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					DeleteBook(gomock.Any(), int64(1)).
					Return(nil)
			},
			response: response{expectedCode: http.StatusNoContent, expectedBody: ``},
		},
		{
			name:   "err. borrowed",
			bookID: "1",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					DeleteBook(gomock.Any(), int64(1)).
					Return(errors.Wrap(errs.ErrConflict, "cannot delete: book is currently borrowed"))
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"cannot delete: book is currently borrowed: conflict"}`,
			},
		},
		{
			name:   "err. already deleted",
			bookID: "2",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					DeleteBook(gomock.Any(), int64(2)).
					Return(errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			h := handler.New(svc, nil, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.DELETE("/admin/books/:id", h.DeleteBook)

			r := httptest.NewRequest(http.MethodDelete, "/admin/books/"+tt.bookID, http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockBookService(c)
	h := handler.New(svc, nil, zap.NewExample().Named("test"))

	createdAt := time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)
	svc.EXPECT().
		ListBooks(gomock.Any(), model.BookFilter{Status: model.StatusAvailable}, 2, 5).
		Return(model.ListBooks{
			Paging: model.Paging{Page: 2, Limit: 5, Total: 6},
			Items: []model.Book{
				{
					ID:        6,
					Title:     "The Art of Computer Programming",
					Author:    "Knuth",
					Genre:     "Programming",
					Status:    model.StatusAvailable,
					CreatedAt: createdAt,
				},
			},
		}, nil)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.GET("/books", h.ListBooks)

	r := httptest.NewRequest(http.MethodGet, "/books?page=2&limit=5&status=available", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"page":2,"limit":5,"total":6,"items":[{"id":6,"title":"The Art of Computer Programming","author":"Knuth","genre":"Programming","status":"available","createdAt":"2024-04-02T09:30:00Z"}]}`,
		strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_ListBooks_badStatus(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockBookService(c)
	h := handler.New(svc, nil, zap.NewExample().Named("test"))

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.GET("/books", h.ListBooks)

	r := httptest.NewRequest(http.MethodGet, "/books?status=lost", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, `{"message":"status is invalid"}`, strings.Trim(w.Body.String(), "\n"))
}
