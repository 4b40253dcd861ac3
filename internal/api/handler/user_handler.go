package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

// UserHandler serves user administration and dashboards.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns every user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Create adds a user with any role.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in := ports.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		ManagerID:  req.ManagerID,
	}
	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			return err
		}
		in.Role = role
	}

	user, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update applies a partial update to a user.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in := ports.UpdateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		ManagerID:  req.ManagerID,
		Password:   req.Password,
		IsActive:   req.IsActive,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return err
		}
		in.Role = &role
	}

	user, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignManager sets the manager of a user.
//
// @Summary      Assign manager
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id          path   int  true  "User ID"
// @Param        manager_id  query  int  true  "Manager ID"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id}/assign-manager [post]
func (h *UserHandler) AssignManager(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	managerID, err := strconv.ParseInt(c.QueryParam("manager_id"), 10, 64)
	if err != nil || managerID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid manager_id")
	}

	user, err := h.service.AssignManager(c.Request().Context(), id, managerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Activate re-enables a user.
//
// @Summary      Activate user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  domain.User
// @Router       /api/users/{id}/activate [post]
func (h *UserHandler) Activate(c echo.Context) error {
	return h.setActive(c, true)
}

// Deactivate disables a user. Their tokens stop resolving immediately.
//
// @Summary      Deactivate user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  domain.User
// @Router       /api/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *UserHandler) setActive(c echo.Context, active bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.service.SetActive(c.Request().Context(), id, active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// AdminDashboard returns organisation-wide figures.
//
// @Summary      Admin dashboard
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AdminDashboard
// @Router       /api/users/dashboard/admin [get]
func (h *UserHandler) AdminDashboard(c echo.Context) error {
	dash, err := h.service.AdminDashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dash)
}

// ManagerDashboard returns figures for the caller's team.
//
// @Summary      Manager dashboard
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.ManagerDashboard
// @Router       /api/users/dashboard/manager [get]
func (h *UserHandler) ManagerDashboard(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	dash, err := h.service.ManagerDashboard(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dash)
}

// EmployeeDashboard returns the caller's own figures.
//
// @Summary      Employee dashboard
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.EmployeeDashboard
// @Router       /api/users/dashboard/employee [get]
func (h *UserHandler) EmployeeDashboard(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	dash, err := h.service.EmployeeDashboard(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dash)
}
