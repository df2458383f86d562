package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type saveTaskRequest struct {
	ID               string    `json:"id"`
	ProjectCode      string    `json:"project_code" validate:"required"`
	Subject          string    `json:"task_subject" validate:"required"`
	Detail           string    `json:"task_detail"`
	AssignedEmployee string    `json:"assigned_employee" validate:"required"`
	AssignedDate     time.Time `json:"assigned_date"`
	Status           string    `json:"task_status" validate:"omitempty,oneof=Open 'In Progress' Complete"`
}

func toSaveTaskInput(req saveTaskRequest) ports.SaveTaskInput {
	return ports.SaveTaskInput{
		ID:               req.ID,
		ProjectCode:      req.ProjectCode,
		Subject:          req.Subject,
		Detail:           req.Detail,
		AssignedEmployee: req.AssignedEmployee,
		AssignedDate:     req.AssignedDate,
		Status:           req.Status,
	}
}

// List handles GET /api/v1/task.
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.service.ListAllTasks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Tasks are successfully retrieved", tasks, http.StatusOK))
}

// Get handles GET /api/v1/task/:taskId.
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.service.FindByID(c.Request().Context(), c.Param("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Task is successfully retrieved", task, http.StatusOK))
}

// Create handles POST /api/v1/task.
func (h *TaskHandler) Create(c echo.Context) error {
	var req saveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.Save(c.Request().Context(), toSaveTaskInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, wrap("Task is created successfully", nil, http.StatusCreated))
}

// Update handles PUT /api/v1/task.
func (h *TaskHandler) Update(c echo.Context) error {
	var req saveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.Update(c.Request().Context(), toSaveTaskInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Task is successfully updated", nil, http.StatusOK))
}

// Delete handles DELETE /api/v1/task/:taskId.
func (h *TaskHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("taskId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Task is successfully deleted", nil, http.StatusOK))
}

// PendingTasks handles GET /api/v1/task/employee/pending-tasks: every
// non-completed task assigned to the calling employee.
func (h *TaskHandler) PendingTasks(c echo.Context) error {
	username, _ := c.Get("username").(string)
	if username == "" {
		return domain.ErrForbidden
	}

	tasks, err := h.service.ListAllNonCompletedByAssignedEmployee(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Pending tasks are successfully retrieved", tasks, http.StatusOK))
}

// ArchivedTasks handles GET /api/v1/task/employee/archive: completed tasks.
func (h *TaskHandler) ArchivedTasks(c echo.Context) error {
	tasks, err := h.service.ListAllTasksByStatus(c.Request().Context(), domain.StatusComplete)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Archived tasks are successfully retrieved", tasks, http.StatusOK))
}

// EmployeeUpdate handles PUT /api/v1/task/employee/update.
func (h *TaskHandler) EmployeeUpdate(c echo.Context) error {
	var req saveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.Update(c.Request().Context(), toSaveTaskInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wrap("Task is successfully updated", nil, http.StatusOK))
}
