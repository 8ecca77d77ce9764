package implementation

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/mapper"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteToolRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FavoriteMapper
}

func NewFavoriteToolRepository(db *gorm.DB) contract.FavoriteToolRepository {
	return &FavoriteToolRepositoryImpl{
		db:     db,
		mapper: mapper.NewFavoriteMapper(),
	}
}

func (r *FavoriteToolRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FavoriteToolRepositoryImpl) Create(ctx context.Context, favorite *entity.FavoriteTool) error {
	m := r.mapper.ToModel(favorite)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*favorite = *r.mapper.ToEntity(m)
	return nil
}

func (r *FavoriteToolRepositoryImpl) DeleteByUserIdAndTool(ctx context.Context, userId uuid.UUID, toolName string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND tool_name = ?", userId, toolName).
		Delete(&model.FavoriteTool{}).Error
}

func (r *FavoriteToolRepositoryImpl) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("user_id = ?", userId).Delete(&model.FavoriteTool{}).Error
}

func (r *FavoriteToolRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FavoriteTool, error) {
	var models []*model.FavoriteTool
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FavoriteTool, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
