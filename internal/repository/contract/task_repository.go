package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
)

// TaskRepository persists tasks. Tasks are never deleted; terminal states are
// the only way out.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	Update(ctx context.Context, task *entity.Task) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

// TaskLogRepository is append-only: Create is the only mutation.
type TaskLogRepository interface {
	Create(ctx context.Context, log *entity.TaskLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TaskLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
