package dto

import (
	"time"

	"github.com/google/uuid"
)

type StepDTO struct {
	Action          string                 `json:"action"`
	Description     string                 `json:"description,omitempty"`
	Parameters      map[string]interface{} `json:"parameters,omitempty"`
	WaitForResponse bool                   `json:"wait_for_response,omitempty"`
}

type TaskResponse struct {
	Id          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Status      string                 `json:"status"`
	Priority    int                    `json:"priority"`
	Steps       []StepDTO              `json:"steps"`
	CurrentStep int                    `json:"current_step"`
	Context     map[string]interface{} `json:"context,omitempty"`
	DueAt       *time.Time             `json:"due_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   *time.Time             `json:"updated_at,omitempty"`
}

type TaskLogDTO struct {
	Id         uuid.UUID              `json:"id"`
	StepNumber int                    `json:"step_number"`
	Action     string                 `json:"action"`
	Status     string                 `json:"status"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	ExecutedAt time.Time              `json:"executed_at"`
}

type TaskDetailResponse struct {
	Task TaskResponse `json:"task"`
	Logs []TaskLogDTO `json:"logs"`
}

type ListTasksRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

type ResumeTaskRequest struct {
	Response map[string]interface{} `json:"response"`
}
