package service

import (
	"context"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IFavoriteService interface {
	ListFavorites(ctx context.Context, userId uuid.UUID) ([]*dto.FavoriteToolResponse, error)
	SetFavorite(ctx context.Context, userId uuid.UUID, req *dto.SetFavoriteRequest) error
	RemoveFavorite(ctx context.Context, userId uuid.UUID, toolName string) error
}

type favoriteService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewFavoriteService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IFavoriteService {
	return &favoriteService{
		uowFactory: uowFactory,
		log:        log,
	}
}

func (s *favoriteService) ListFavorites(ctx context.Context, userId uuid.UUID) ([]*dto.FavoriteToolResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	favorites, err := uow.FavoriteToolRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.FavoriteToolResponse, len(favorites))
	for i, f := range favorites {
		responses[i] = &dto.FavoriteToolResponse{
			ToolName:  f.ToolName,
			CreatedAt: f.CreatedAt,
		}
	}
	return responses, nil
}

// SetFavorite marks a tool as favorite. Deleting any existing row first
// keeps the operation idempotent and refreshes the favorited-at time.
func (s *favoriteService) SetFavorite(ctx context.Context, userId uuid.UUID, req *dto.SetFavoriteRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.FavoriteToolRepository().DeleteByUserIdAndTool(ctx, userId, req.ToolName); err != nil {
		return err
	}
	if err := uow.FavoriteToolRepository().Create(ctx, &entity.FavoriteTool{
		Id:       uuid.New(),
		UserId:   userId,
		ToolName: req.ToolName,
	}); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, userId uuid.UUID, toolName string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FavoriteToolRepository().DeleteByUserIdAndTool(ctx, userId, toolName)
}
