package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OngoingInstruction struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Instruction string         `gorm:"type:text;not null"`
	IsActive    bool           `gorm:"not null;default:true;index"`
	Priority    int            `gorm:"not null;default:1"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (OngoingInstruction) TableName() string {
	return "ongoing_instructions"
}
