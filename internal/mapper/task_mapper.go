package mapper

import (
	"encoding/json"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type TaskMapper struct{}

func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

func (m *TaskMapper) ToEntity(t *model.Task) *entity.Task {
	if t == nil {
		return nil
	}

	var steps []entity.Step
	if len(t.Steps) > 0 {
		// A malformed steps column yields an empty plan; execution then
		// falls through to the missing-action failure path.
		_ = json.Unmarshal(t.Steps, &steps)
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.Task{
		Id:          t.Id,
		UserId:      t.UserId,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Context:     t.Context,
		Steps:       steps,
		CurrentStep: t.CurrentStep,
		Assignee:    t.Assignee,
		Metadata:    t.Metadata,
		DueAt:       t.DueAt,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *TaskMapper) ToModel(t *entity.Task) *model.Task {
	if t == nil {
		return nil
	}

	stepsJSON, err := json.Marshal(t.Steps)
	if err != nil || t.Steps == nil {
		stepsJSON = []byte("[]")
	}

	mt := &model.Task{
		Id:          t.Id,
		UserId:      t.UserId,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Context:     datatypes.JSONMap(t.Context),
		Steps:       datatypes.JSON(stepsJSON),
		CurrentStep: t.CurrentStep,
		Assignee:    t.Assignee,
		Metadata:    datatypes.JSONMap(t.Metadata),
		DueAt:       t.DueAt,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
	}
	if t.UpdatedAt != nil {
		mt.UpdatedAt = *t.UpdatedAt
	}
	return mt
}

func (m *TaskMapper) LogToEntity(l *model.TaskLog) *entity.TaskLog {
	if l == nil {
		return nil
	}
	return &entity.TaskLog{
		Id:         l.Id,
		TaskId:     l.TaskId,
		StepNumber: l.StepNumber,
		Action:     l.Action,
		Status:     l.Status,
		Details:    l.Details,
		Metadata:   l.Metadata,
		ExecutedAt: l.ExecutedAt,
	}
}

func (m *TaskMapper) LogToModel(l *entity.TaskLog) *model.TaskLog {
	if l == nil {
		return nil
	}
	return &model.TaskLog{
		Id:         l.Id,
		TaskId:     l.TaskId,
		StepNumber: l.StepNumber,
		Action:     l.Action,
		Status:     l.Status,
		Details:    l.Details,
		Metadata:   datatypes.JSONMap(l.Metadata),
		ExecutedAt: l.ExecutedAt,
	}
}
