package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitInstructionRequest struct {
	Instruction string `json:"instruction" validate:"required"`
}

// SubmitInstructionResponse reports how the instruction was routed. Exactly
// one of Task, OngoingInstruction or Answer is set, matching Category.
type SubmitInstructionResponse struct {
	Category           string                 `json:"category"`
	Priority           int                    `json:"priority"`
	Task               *TaskResponse          `json:"task,omitempty"`
	OngoingInstruction *OngoingInstructionDTO `json:"ongoing_instruction,omitempty"`
	Answer             *ImmediateAnswerDTO    `json:"answer,omitempty"`
}

type ImmediateAnswerDTO struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	Content       string    `json:"content"`
}

type OngoingInstructionDTO struct {
	Id          uuid.UUID  `json:"id"`
	Instruction string     `json:"instruction"`
	IsActive    bool       `json:"is_active"`
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type UpdateOngoingInstructionRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
