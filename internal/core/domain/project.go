package domain

import (
	"errors"
	"time"
)

// Status represents the lifecycle state shared by projects and tasks.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusComplete   Status = "Complete"
)

var ErrProjectNotFound = errors.New("project not found")
var ErrProjectExists = errors.New("project already exists")

// Project is owned by the project service; the user directory only ever
// reads it, to count outstanding work for a manager being deleted.
// ID is the storage identity, so a save after a code rename still replaces
// the same record.
type Project struct {
	ID              string    `json:"-"`
	ProjectCode     string    `json:"project_code"`
	ProjectName     string    `json:"project_name"`
	AssignedManager string    `json:"assigned_manager"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	ProjectDetail   string    `json:"project_detail"`
	Status          Status    `json:"project_status"`
	IsDeleted       bool      `json:"-"`
}
