package service

import (
	"context"
	"testing"

	"ai-chat-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectLifecycle(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	svc := NewProjectService(&fakeRepositoryFactory{uow: uow}, nopLogger{})

	created, err := svc.CreateProject(context.Background(), userId, &dto.CreateProjectRequest{
		Title: "Research",
		Icon:  "flask",
		Color: "#336699",
	})
	require.NoError(t, err)
	assert.Equal(t, "Research", created.Title)

	updated, err := svc.UpdateProject(context.Background(), userId, &dto.UpdateProjectRequest{
		Id:    created.Id,
		Title: "Research v2",
		Icon:  "flask",
		Color: "#336699",
	})
	require.NoError(t, err)
	assert.Equal(t, "Research v2", updated.Title)

	all, err := svc.GetAllProjects(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Research v2", all[0].Title)

	require.NoError(t, svc.DeleteProject(context.Background(), userId, created.Id))
	all, err = svc.GetAllProjects(context.Background(), userId)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProjectOwnershipEnforced(t *testing.T) {
	uow := newFakeUnitOfWork()
	owner := uuid.New()
	svc := NewProjectService(&fakeRepositoryFactory{uow: uow}, nopLogger{})

	created, err := svc.CreateProject(context.Background(), owner, &dto.CreateProjectRequest{Title: "Private"})
	require.NoError(t, err)

	intruder := uuid.New()
	_, err = svc.UpdateProject(context.Background(), intruder, &dto.UpdateProjectRequest{Id: created.Id, Title: "Mine now"})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	err = svc.DeleteProject(context.Background(), intruder, created.Id)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
