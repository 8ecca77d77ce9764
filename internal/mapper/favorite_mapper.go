package mapper

import (
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type FavoriteMapper struct{}

func NewFavoriteMapper() *FavoriteMapper {
	return &FavoriteMapper{}
}

func (m *FavoriteMapper) ToEntity(f *model.FavoriteTool) *entity.FavoriteTool {
	if f == nil {
		return nil
	}
	return &entity.FavoriteTool{
		Id:        f.Id,
		UserId:    f.UserId,
		ToolName:  f.ToolName,
		CreatedAt: f.CreatedAt,
	}
}

func (m *FavoriteMapper) ToModel(f *entity.FavoriteTool) *model.FavoriteTool {
	if f == nil {
		return nil
	}
	return &model.FavoriteTool{
		Id:        f.Id,
		UserId:    f.UserId,
		ToolName:  f.ToolName,
		CreatedAt: f.CreatedAt,
	}
}
