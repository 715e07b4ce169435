package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TaskLog is the append-only audit record of a single step attempt. Rows are
// never updated or deleted, so there is no soft-delete column.
type TaskLog struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskId     uuid.UUID         `gorm:"type:uuid;not null;index"`
	StepNumber int               `gorm:"not null"`
	Action     string            `gorm:"type:varchar(100);not null"`
	Status     string            `gorm:"type:varchar(20);not null;index"`
	Details    string            `gorm:"type:text"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	ExecutedAt time.Time         `gorm:"autoCreateTime;index"`
}

func (TaskLog) TableName() string {
	return "task_logs"
}
