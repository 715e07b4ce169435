package implementation

import (
	"context"
	"errors"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
)

type OngoingInstructionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InstructionMapper
}

func NewOngoingInstructionRepository(db *gorm.DB) contract.OngoingInstructionRepository {
	return &OngoingInstructionRepositoryImpl{
		db:     db,
		mapper: mapper.NewInstructionMapper(),
	}
}

func (r *OngoingInstructionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *OngoingInstructionRepositoryImpl) Create(ctx context.Context, instruction *entity.OngoingInstruction) error {
	m := r.mapper.ToModel(instruction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*instruction = *r.mapper.ToEntity(m)
	return nil
}

func (r *OngoingInstructionRepositoryImpl) Update(ctx context.Context, instruction *entity.OngoingInstruction) error {
	m := r.mapper.ToModel(instruction)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*instruction = *r.mapper.ToEntity(m)
	return nil
}

func (r *OngoingInstructionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.OngoingInstruction, error) {
	var m model.OngoingInstruction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *OngoingInstructionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.OngoingInstruction, error) {
	var models []*model.OngoingInstruction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.OngoingInstruction, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *OngoingInstructionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.OngoingInstruction{}).Count(&count).Error
	return count, err
}
