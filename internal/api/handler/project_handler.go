package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type saveProjectRequest struct {
	ProjectCode     string    `json:"project_code" validate:"required"`
	ProjectName     string    `json:"project_name" validate:"required"`
	AssignedManager string    `json:"assigned_manager" validate:"required"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	ProjectDetail   string    `json:"project_detail"`
	Status          string    `json:"project_status" validate:"omitempty,oneof=Open 'In Progress' Complete"`
}

func toSaveProjectInput(req saveProjectRequest) ports.SaveProjectInput {
	return ports.SaveProjectInput{
		ProjectCode:     req.ProjectCode,
		ProjectName:     req.ProjectName,
		AssignedManager: req.AssignedManager,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		ProjectDetail:   req.ProjectDetail,
		Status:          req.Status,
	}
}

// List handles GET /api/v1/project.
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.service.ListAllProjects(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Projects are successfully retrieved", projects, http.StatusOK))
}

// Get handles GET /api/v1/project/:projectCode.
func (h *ProjectHandler) Get(c echo.Context) error {
	project, err := h.service.GetByProjectCode(c.Request().Context(), c.Param("projectCode"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Project is successfully retrieved", project, http.StatusOK))
}

// Create handles POST /api/v1/project.
func (h *ProjectHandler) Create(c echo.Context) error {
	var req saveProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.Save(c.Request().Context(), toSaveProjectInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, wrap("Project is successfully created", nil, http.StatusCreated))
}

// Update handles PUT /api/v1/project.
func (h *ProjectHandler) Update(c echo.Context) error {
	var req saveProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.Update(c.Request().Context(), toSaveProjectInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Project is successfully updated", nil, http.StatusOK))
}

// Delete handles DELETE /api/v1/project/:projectCode.
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("projectCode")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Project is successfully deleted", nil, http.StatusOK))
}

// ManagerProjects handles GET /api/v1/project/manager/project-status. The
// manager identity comes from the auth claims, not from the request.
func (h *ProjectHandler) ManagerProjects(c echo.Context) error {
	username, _ := c.Get("username").(string)
	if username == "" {
		return domain.ErrForbidden
	}

	projects, err := h.service.ListByAssignedManager(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Projects are successfully retrieved", projects, http.StatusOK))
}

// Complete handles PUT /api/v1/project/manager/complete/:projectCode.
func (h *ProjectHandler) Complete(c echo.Context) error {
	if err := h.service.Complete(c.Request().Context(), c.Param("projectCode")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Project is successfully completed", nil, http.StatusOK))
}
