package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-records/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type hasAdminResponse struct {
	HasAdmin bool `json:"hasAdmin"`
}

// HasAdmin reports whether the initial admin has been created yet.
//
// @Summary      Check whether an admin account exists
// @Tags         auth
// @Produce      json
// @Success      200  {object}  hasAdminResponse
// @Router       /api/auth/has-admin [get]
func (h *AuthHandler) HasAdmin(c echo.Context) error {
	has, err := h.authService.HasAdmin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hasAdminResponse{HasAdmin: has})
}

// BootstrapAdmin creates the first admin account and returns its token.
//
// @Summary      Bootstrap the admin account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Admin credentials"
// @Success      201   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/admin [post]
func (h *AuthHandler) BootstrapAdmin(c echo.Context) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}
	res, err := h.authService.BootstrapAdmin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// Register creates a staff account and returns its token.
//
// @Summary      Register a new staff user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "User credentials"
// @Success      201   {object}  ports.AuthResult
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}
	res, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// Login authenticates a user and returns a fresh token carrying the user's
// current role.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  ports.AuthResult
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}
	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// ListUsers returns all accounts without password hashes. Admin only.
//
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Success      200  {array}  domain.PublicUser
// @Router       /api/auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func bindCredentials(c echo.Context) (*credentialsRequest, error) {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return &req, nil
}
