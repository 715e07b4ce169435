package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Task is the durable unit of work derived from a user instruction. Steps are
// embedded on the row as a JSON array; they are immutable after creation so a
// separate table buys nothing.
type Task struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Title       string            `gorm:"type:text;not null"`
	Description string            `gorm:"type:text"`
	Status      string            `gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority    int               `gorm:"not null;default:1"`
	Context     datatypes.JSONMap `gorm:"type:jsonb"`
	Steps       datatypes.JSON    `gorm:"type:jsonb;not null;default:'[]'"`
	CurrentStep int               `gorm:"not null;default:0"`
	Assignee    string            `gorm:"type:varchar(100);default:'assistant'"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	DueAt       *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
