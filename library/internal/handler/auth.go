package handler

import (
	"net/http"

	"github.com/bookloop/library-service/library/internal/model"
	"github.com/labstack/echo/v4"
)

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register godoc
// @Summary  Register a user
// @Tags     auth
// @Param    user body model.RegisterRequest true "user"
// @Success  201 {object} userResponse
// @Router   /auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Public registration always produces a plain user.
	user, err := h.authSvc.Register(c.Request().Context(), req, model.RoleUser)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// RegisterAdmin is admin-only: it creates another admin account.
func (h *Handler) RegisterAdmin(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authSvc.Register(c.Request().Context(), req, model.RoleAdmin)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login godoc
// @Summary  Login
// @Tags     auth
// @Param    credentials body model.LoginRequest true "credentials"
// @Success  200 {object} tokenResponse
// @Failure  401 {object} echo.HTTPError
// @Router   /auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}
