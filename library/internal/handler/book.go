package handler

import (
	"net/http"

	"github.com/bookloop/library-service/library/internal/model"
	"github.com/bookloop/library-service/pkg/auth"
	"github.com/labstack/echo/v4"
)

const defaultPageLimit = 10

// ListBooks godoc
// @Summary  List books
// @Tags     books
// @Param    page   query int    false "page"
// @Param    limit  query int    false "limit"
// @Param    status query string false "available|borrowed"
// @Success  200 {object} model.ListBooks
// @Router   /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	page, limit, err := paging(c, defaultPageLimit)
	if err != nil {
		return err
	}
	filter := model.BookFilter{}
	if status := c.QueryParam("status"); status != "" {
		if status != string(model.StatusAvailable) && status != string(model.StatusBorrowed) {
			return echo.NewHTTPError(http.StatusBadRequest, "status is invalid")
		}
		filter.Status = model.Status(status)
	}

	books, err := h.bookSvc.ListBooks(c.Request().Context(), filter, page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary  View a book
// @Tags     books
// @Param    id path int true "book id"
// @Success  200 {object} model.Book
// @Failure  404 {object} echo.HTTPError
// @Failure  410 {object} echo.HTTPError
// @Router   /books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	book, err := h.bookSvc.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// BorrowBook godoc
// @Summary  Borrow a book
// @Tags     books
// @Param    id path int true "book id"
// @Success  201 {object} model.BorrowEvent
// @Failure  404 {object} echo.HTTPError
// @Failure  409 {object} echo.HTTPError
// @Router   /books/{id}/borrow [post]
func (h *Handler) BorrowBook(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	userID, ok := auth.UserID(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No auth context")
	}

	event, err := h.bookSvc.BorrowBook(c.Request().Context(), bookID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, event)
}

// UserBorrowed godoc
// @Summary  Caller's borrow history
// @Tags     user
// @Success  200 {object} model.ListBorrowed
// @Router   /user/borrowed [get]
func (h *Handler) UserBorrowed(c echo.Context) error {
	page, limit, err := paging(c, defaultPageLimit)
	if err != nil {
		return err
	}
	userID, ok := auth.UserID(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No auth context")
	}

	borrowed, err := h.bookSvc.UserBorrowed(c.Request().Context(), userID, page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrowed)
}
