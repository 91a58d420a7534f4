package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

// AdminHandler serves the admin-only surface: user directory, account flags,
// platform statistics, and the projects export.
type AdminHandler struct {
	userService  ports.UserService
	statsService ports.StatsService
}

func NewAdminHandler(userService ports.UserService, statsService ports.StatsService) *AdminHandler {
	return &AdminHandler{userService: userService, statsService: statsService}
}

// ListUsers handles GET /admin/users.
//
// @Summary      List user accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role    query     string  false  "Filter by role"
// @Param        search  query     string  false  "Substring search over email and names"
// @Success      200     {object}  listResponse[domain.User]
// @Failure      403     {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context(), ports.ListUsersFilter{
		Role:   domain.Role(c.QueryParam("role")),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, listResponse[*domain.User]{Items: users, Total: len(users)})
}

type updateAccountRequest struct {
	Role       *string `json:"role" validate:"omitempty,oneof=citizen official admin"`
	IsActive   *bool   `json:"is_active"`
	IsVerified *bool   `json:"is_verified"`
}

// UpdateAccount handles PUT /admin/users/:id.
//
// @Summary      Change account role or flags
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "User id"
// @Param        body  body      updateAccountRequest  true  "Flags to change"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateAccount(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.AdminUserPatch{
		IsActive:   req.IsActive,
		IsVerified: req.IsVerified,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}

	user, err := h.userService.UpdateAccount(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Stats handles GET /admin/stats.
//
// @Summary      Platform statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.StatsResult
// @Failure      403  {object}  map[string]string
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.statsService.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ExportProjects handles GET /admin/export/projects?format=json|csv.
//
// @Summary      Export all projects
// @Tags         admin
// @Produce      json
// @Produce      text/csv
// @Security     BearerAuth
// @Param        format  query  string  false  "json (default) or csv"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/export/projects [get]
func (h *AdminHandler) ExportProjects(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "json"
	}

	result, err := h.statsService.ExportProjects(c.Request().Context(), format)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+result.Filename+`"`)
	if format == "csv" {
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(result.CSV))
	}
	return c.JSON(http.StatusOK, result.Projects)
}
