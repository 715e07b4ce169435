package mapper

import (
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/gorm"
)

type InstructionMapper struct{}

func NewInstructionMapper() *InstructionMapper {
	return &InstructionMapper{}
}

func (m *InstructionMapper) ToEntity(i *model.OngoingInstruction) *entity.OngoingInstruction {
	if i == nil {
		return nil
	}

	var deletedAt *time.Time
	if i.DeletedAt.Valid {
		t := i.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	return &entity.OngoingInstruction{
		Id:          i.Id,
		UserId:      i.UserId,
		Instruction: i.Instruction,
		IsActive:    i.IsActive,
		Priority:    i.Priority,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   i.DeletedAt.Valid,
	}
}

func (m *InstructionMapper) ToModel(i *entity.OngoingInstruction) *model.OngoingInstruction {
	if i == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if i.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *i.DeletedAt, Valid: true}
	} else if i.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	mi := &model.OngoingInstruction{
		Id:          i.Id,
		UserId:      i.UserId,
		Instruction: i.Instruction,
		IsActive:    i.IsActive,
		Priority:    i.Priority,
		CreatedAt:   i.CreatedAt,
		DeletedAt:   deletedAt,
	}
	if i.UpdatedAt != nil {
		mi.UpdatedAt = *i.UpdatedAt
	}
	return mi
}
