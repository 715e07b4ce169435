package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
)

type OngoingInstructionRepository interface {
	Create(ctx context.Context, instruction *entity.OngoingInstruction) error
	Update(ctx context.Context, instruction *entity.OngoingInstruction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.OngoingInstruction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.OngoingInstruction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
