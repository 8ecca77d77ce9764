package service

import (
	"bytes"
	"context"
	"testing"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailService struct {
	sentTo []string
	err    error
}

func (s *fakeEmailService) SendAccountDeleted(toEmail, fullName string) error {
	s.sentTo = append(s.sentTo, toEmail)
	return s.err
}

func seedAccount(uow *fakeUnitOfWork) *entity.User {
	user := &entity.User{
		Id:       uuid.New(),
		Email:    "user@example.com",
		FullName: "Test User",
	}
	uow.users.rows = append(uow.users.rows, user)

	chat := seedChat(uow, user.Id, "Some chat")
	uow.projects.rows = append(uow.projects.rows, &entity.Project{Id: uuid.New(), UserId: user.Id, Title: "Project"})
	uow.usage.rows = append(uow.usage.rows, &entity.TokenUsage{Id: uuid.New(), UserId: user.Id, ChatId: &chat.Id})
	uow.favorites.rows = append(uow.favorites.rows, &entity.FavoriteTool{Id: uuid.New(), UserId: user.Id, ToolName: "image-generator"})
	uow.subscriptions.rows = append(uow.subscriptions.rows, &entity.UserSubscription{Id: uuid.New(), UserId: user.Id, Status: "active"})
	return user
}

func TestDeleteAccountPurgesEverything(t *testing.T) {
	uow := newFakeUnitOfWork()
	user := seedAccount(uow)

	store := newFakeObjectStore()
	require.NoError(t, store.Upload(context.Background(), user.Id.String()+"/1-000001.png", bytes.NewReader([]byte("img"))))

	email := &fakeEmailService{}
	svc := NewAccountService(&fakeRepositoryFactory{uow: uow}, store, email, nil, nopLogger{})

	require.NoError(t, svc.DeleteAccount(context.Background(), user.Id))

	assert.True(t, uow.committed)
	assert.Empty(t, uow.users.rows)
	assert.Empty(t, uow.chats.rows)
	assert.Empty(t, uow.projects.rows)
	assert.Empty(t, uow.usage.rows)
	assert.Empty(t, uow.favorites.rows)
	assert.Empty(t, uow.subscriptions.rows)

	// stored objects under the user's prefix are gone
	assert.Empty(t, store.uploads)

	require.Len(t, email.sentTo, 1)
	assert.Equal(t, "user@example.com", email.sentTo[0])
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewAccountService(&fakeRepositoryFactory{uow: uow}, nil, nil, nil, nopLogger{})

	err := svc.DeleteAccount(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, uow.begun)
}

func TestDeleteAccountLeavesOtherUsersAlone(t *testing.T) {
	uow := newFakeUnitOfWork()
	victim := seedAccount(uow)
	other := &entity.User{Id: uuid.New(), Email: "other@example.com"}
	uow.users.rows = append(uow.users.rows, other)
	otherChat := seedChat(uow, other.Id, "Untouched")

	svc := NewAccountService(&fakeRepositoryFactory{uow: uow}, nil, nil, nil, nopLogger{})
	require.NoError(t, svc.DeleteAccount(context.Background(), victim.Id))

	require.Len(t, uow.users.rows, 1)
	assert.Equal(t, other.Id, uow.users.rows[0].Id)
	require.Len(t, uow.chats.rows, 1)
	assert.Equal(t, otherChat.Id, uow.chats.rows[0].Id)
}

func TestDeleteAccountEmailFailureDoesNotFail(t *testing.T) {
	uow := newFakeUnitOfWork()
	user := seedAccount(uow)

	email := &fakeEmailService{err: assert.AnError}
	svc := NewAccountService(&fakeRepositoryFactory{uow: uow}, nil, email, nil, nopLogger{})

	// the account is already gone when the email fires; its failure is logged only
	require.NoError(t, svc.DeleteAccount(context.Background(), user.Id))
	assert.Empty(t, uow.users.rows)
}
