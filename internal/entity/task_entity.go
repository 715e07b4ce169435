package entity

import (
	"time"

	"github.com/google/uuid"
)

// Step is one declared action inside a task's plan. Steps are fixed at task
// creation; only CurrentStep on the task moves.
type Step struct {
	Action          string                 `json:"action"`
	Description     string                 `json:"description,omitempty"`
	Parameters      map[string]interface{} `json:"parameters,omitempty"`
	WaitForResponse bool                   `json:"wait_for_response,omitempty"`
}

type Task struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Title       string
	Description string
	Status      string
	Priority    int
	Context     map[string]interface{}
	Steps       []Step
	CurrentStep int
	Assignee    string
	Metadata    map[string]interface{}
	DueAt       *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// IsTerminal reports whether the task can make no further progress.
func (t *Task) IsTerminal() bool {
	switch t.Status {
	case "completed", "failed", "cancelled":
		return true
	}
	return false
}

type TaskLog struct {
	Id         uuid.UUID
	TaskId     uuid.UUID
	StepNumber int
	Action     string
	Status     string
	Details    string
	Metadata   map[string]interface{}
	ExecutedAt time.Time
}
