package service

import (
	"context"
	"errors"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrProjectNotFound = errors.New("project not found")

type IProjectService interface {
	CreateProject(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetAllProjects(ctx context.Context, userId uuid.UUID) ([]*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) error
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IProjectService {
	return &projectService{
		uowFactory: uowFactory,
		log:        log,
	}
}

func (s *projectService) CreateProject(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project := &entity.Project{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       req.Title,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
	}
	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, err
	}

	return toProjectResponse(project), nil
}

func (s *projectService) GetAllProjects(ctx context.Context, userId uuid.UUID) ([]*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = toProjectResponse(p)
	}
	return responses, nil
}

func (s *projectService) UpdateProject(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := s.findOwnedProject(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	project.Title = req.Title
	project.Icon = req.Icon
	project.Color = req.Color
	project.Description = req.Description

	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectService) DeleteProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwnedProject(ctx, uow, userId, projectId); err != nil {
		return err
	}
	return uow.ProjectRepository().Delete(ctx, projectId)
}

func (s *projectService) findOwnedProject(ctx context.Context, uow unitofwork.UnitOfWork, userId, projectId uuid.UUID) (*entity.Project, error) {
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func toProjectResponse(project *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		Id:          project.Id,
		Title:       project.Title,
		Icon:        project.Icon,
		Color:       project.Color,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
	}
}
