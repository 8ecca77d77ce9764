package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsageService(uow *fakeUnitOfWork) IUsageService {
	return NewUsageService(&fakeRepositoryFactory{uow: uow}, nopLogger{})
}

func TestLogUsageSingleObject(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := newTestUsageService(uow)
	userId := uuid.New()

	res, err := svc.LogUsage(context.Background(), userId, json.RawMessage(
		`{"model": "gpt-4o-mini", "promptTokens": 1000, "completionTokens": 1000, "totalTokens": 2000}`,
	))
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Ids, 1)

	require.Len(t, uow.usage.rows, 1)
	row := uow.usage.rows[0]
	assert.Equal(t, userId, row.UserId)
	assert.Equal(t, "gpt-4o-mini", row.Model)
	assert.InDelta(t, 0.00075, row.CostUSD, 1e-9)
}

func TestLogUsageBatch(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := newTestUsageService(uow)

	res, err := svc.LogUsage(context.Background(), uuid.New(), json.RawMessage(
		`[{"model": "gpt-4o", "totalTokens": 100},
		  {"model": "gpt-4-turbo", "totalTokens": 200}]`,
	))
	require.NoError(t, err)
	require.Len(t, res.Ids, 2)
	assert.NotEqual(t, res.Ids[0], res.Ids[1])
	assert.Len(t, uow.usage.rows, 2)
}

// The log is append-only: resubmitting identical data yields new rows with
// fresh ids, never an update of the old ones.
func TestLogUsageResubmissionAppends(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := newTestUsageService(uow)
	userId := uuid.New()

	payload := json.RawMessage(`{"model": "gpt-4o", "totalTokens": 50}`)

	first, err := svc.LogUsage(context.Background(), userId, payload)
	require.NoError(t, err)
	second, err := svc.LogUsage(context.Background(), userId, payload)
	require.NoError(t, err)

	assert.NotEqual(t, first.Ids[0], second.Ids[0])
	assert.Len(t, uow.usage.rows, 2)
}

func TestLogUsageRejectsInvalidInput(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := newTestUsageService(uow)
	userId := uuid.New()

	_, err := svc.LogUsage(context.Background(), userId, json.RawMessage(`[]`))
	assert.ErrorIs(t, err, ErrEmptyUsageBatch)

	_, err = svc.LogUsage(context.Background(), userId, json.RawMessage(`not json`))
	assert.ErrorIs(t, err, ErrInvalidUsagePayload)

	// model is required
	_, err = svc.LogUsage(context.Background(), userId, json.RawMessage(`{"totalTokens": 10}`))
	assert.Error(t, err)

	// totalTokens must be at least 1
	_, err = svc.LogUsage(context.Background(), userId, json.RawMessage(`{"model": "gpt-4o", "totalTokens": 0}`))
	assert.Error(t, err)

	assert.Empty(t, uow.usage.rows, "invalid payloads must not insert rows")
}
