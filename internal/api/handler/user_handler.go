package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tickethub/ticketing-system/internal/core/ports"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/v1/user.
//
// @Summary      List all active users
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responseWrapper
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/user [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListAllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Users are successfully retrieved", toUserResponses(users), http.StatusOK))
}

// Get handles GET /api/v1/user/:username.
//
// @Summary      Get a user by username
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  responseWrapper
// @Failure      404       {object}  map[string]string
// @Router       /api/v1/user/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.FindByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("User is successfully retrieved", toUserResponse(user), http.StatusOK))
}

// Create handles POST /api/v1/user.
//
// @Summary      Create a user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveUserRequest  true  "User details"
// @Success      201   {object}  responseWrapper
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/user [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req saveUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.Save(c.Request().Context(), toSaveUserInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, wrap("User is successfully created", nil, http.StatusCreated))
}

// Update handles PUT /api/v1/user.
//
// @Summary      Update a user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveUserRequest  true  "User details"
// @Success      200   {object}  responseWrapper
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/user [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req saveUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.Update(c.Request().Context(), toSaveUserInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("User is successfully updated", nil, http.StatusOK))
}

// Delete handles DELETE /api/v1/user/:username.
//
// @Summary      Soft-delete a user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  responseWrapper
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /api/v1/user/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("username")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("User is successfully deleted", nil, http.StatusOK))
}
