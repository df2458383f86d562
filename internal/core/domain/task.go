package domain

import (
	"errors"
	"time"
)

var ErrTaskNotFound = errors.New("task not found")

// Task is owned by the task service; the user directory reads it only to
// count outstanding work for an employee being deleted.
type Task struct {
	ID               string    `json:"id"`
	ProjectCode      string    `json:"project_code"`
	Subject          string    `json:"task_subject"`
	Detail           string    `json:"task_detail"`
	AssignedEmployee string    `json:"assigned_employee"`
	AssignedDate     time.Time `json:"assigned_date"`
	Status           Status    `json:"task_status"`
	IsDeleted        bool      `json:"-"`
}
