package handler

import (
	"net/http"
	"strconv"

	md "github.com/bookloop/library-service/pkg/middleware"

	"github.com/bookloop/library-service/library/internal/errs"
	"github.com/bookloop/library-service/pkg/validate"
	_ "github.com/bookloop/library-service/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	bookSvc BookService
	authSvc AuthService
	log     *zap.Logger
}

func New(bookSvc BookService, authSvc AuthService, log *zap.Logger) *Handler {
	h := &Handler{
		bookSvc: bookSvc,
		authSvc: authSvc,
		log:     log,
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()

	pub := e.Group("/auth",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	pub.POST("/register", h.Register)
	pub.POST("/login", h.Login)

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.JwtAuthentication,
	)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.POST("/books/:id/borrow", h.BorrowBook)
	api.GET("/user/borrowed", h.UserBorrowed)

	admin := api.Group("/admin", md.AdminOnly)
	admin.POST("/register", h.RegisterAdmin)
	admin.POST("/books", h.CreateBook)
	admin.PATCH("/books/:id", h.UpdateBook)
	admin.DELETE("/books/:id", h.DeleteBook)
	admin.GET("/books", h.AdminListBooks)
	admin.GET("/borrow-events", h.BorrowLogs)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError keeps the error kinds outwardly distinguishable: invalid
// input, not-found, conflict, gone and retryable storage failures each
// map to their own status.
func httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrInvalidInput), errors.Is(err, errs.ErrEmailExists):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrGone):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	case errors.Is(err, errs.ErrStorageRetry):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func bookIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	return id, nil
}

func paging(c echo.Context, defaultLimit int) (page, limit int, err error) {
	page, limit = 1, defaultLimit
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil || page < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if limit, err = strconv.Atoi(limitParam); err != nil || limit < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "limit is invalid")
		}
	}
	return page, limit, nil
}
