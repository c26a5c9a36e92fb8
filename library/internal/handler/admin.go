package handler

import (
	"net/http"
	"strconv"

	"github.com/bookloop/library-service/library/internal/model"
	"github.com/labstack/echo/v4"
)

// CreateBook godoc
// @Summary  Add a book to the catalog
// @Tags     admin
// @Param    book body model.CreateBookRequest true "book"
// @Success  201 {object} model.Book
// @Router   /admin/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.bookSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// UpdateBook godoc
// @Summary  Partially update a book
// @Tags     admin
// @Param    id   path int                     true "book id"
// @Param    book body model.UpdateBookRequest true "fields"
// @Success  200 {object} model.Book
// @Failure  404 {object} echo.HTTPError
// @Failure  409 {object} echo.HTTPError
// @Router   /admin/books/{id} [patch]
func (h *Handler) UpdateBook(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.bookSvc.UpdateBook(c.Request().Context(), bookID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary  Soft-delete a book
// @Tags     admin
// @Param    id path int true "book id"
// @Success  204
// @Failure  404 {object} echo.HTTPError
// @Failure  409 {object} echo.HTTPError
// @Router   /admin/books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}
	if err := h.bookSvc.DeleteBook(c.Request().Context(), bookID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminListBooks mirrors ListBooks but may include soft-deleted rows for
// the audit path.
func (h *Handler) AdminListBooks(c echo.Context) error {
	page, limit, err := paging(c, defaultPageLimit)
	if err != nil {
		return err
	}
	filter := model.BookFilter{}
	if includeParam := c.QueryParam("includeDeleted"); includeParam != "" {
		if filter.IncludeDeleted, err = strconv.ParseBool(includeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "includeDeleted is invalid")
		}
	}

	books, err := h.bookSvc.ListBooks(c.Request().Context(), filter, page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// BorrowLogs godoc
// @Summary  Borrow audit log
// @Tags     admin
// @Success  200 {object} model.ListBorrowLogs
// @Router   /admin/borrow-events [get]
func (h *Handler) BorrowLogs(c echo.Context) error {
	page, limit, err := paging(c, 20)
	if err != nil {
		return err
	}
	logs, err := h.bookSvc.BorrowLogs(c.Request().Context(), page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, logs)
}
