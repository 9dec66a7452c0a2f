package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-records/internal/core/ports"
)

type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Promote overwrites the target user's role to manager. Admin only. Note
// that promoting an admin demotes them to manager; this mirrors the
// reference behavior deliberately.
//
// @Summary      Promote a user to manager
// @Tags         users
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id}/promote [post]
func (h *UserHandler) Promote(c echo.Context) error {
	if err := h.authService.Promote(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
