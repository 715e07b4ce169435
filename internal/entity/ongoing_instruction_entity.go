package entity

import (
	"time"

	"github.com/google/uuid"
)

type OngoingInstruction struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Instruction string
	IsActive    bool
	Priority    int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
