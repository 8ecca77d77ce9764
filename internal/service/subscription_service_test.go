package service

import (
	"context"
	"testing"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/pkg/billing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBillingClient struct {
	sub   *billing.Subscription
	err   error
	calls int
}

func (c *fakeBillingClient) ActiveSubscription(ctx context.Context, email string) (*billing.Subscription, error) {
	c.calls++
	return c.sub, c.err
}

func newTestSubscriptionService(uow *fakeUnitOfWork, client *fakeBillingClient) ISubscriptionService {
	// redis and event bus absent: the service must degrade to a direct check
	return NewSubscriptionService(&fakeRepositoryFactory{uow: uow}, client, nil, nil, nopLogger{})
}

func TestGetStatusUpsertsActiveSubscription(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	periodEnd := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second)

	client := &fakeBillingClient{sub: &billing.Subscription{
		CustomerID:       "cus_123",
		SubscriptionID:   "sub_456",
		ProductID:        "prod_789",
		PlanName:         "Pro",
		Status:           "active",
		CurrentPeriodEnd: periodEnd,
	}}
	svc := newTestSubscriptionService(uow, client)

	res, err := svc.GetStatus(context.Background(), userId, "user@example.com")
	require.NoError(t, err)

	assert.True(t, res.Subscribed)
	assert.Equal(t, "prod_789", res.ProductId)
	require.NotNil(t, res.SubscriptionEnd)
	assert.True(t, res.SubscriptionEnd.Equal(periodEnd))

	// exactly one local row, keyed on the user
	require.Len(t, uow.subscriptions.rows, 1)
	row := uow.subscriptions.rows[0]
	assert.Equal(t, userId, row.UserId)
	assert.Equal(t, "cus_123", row.CustomerId)
	assert.Equal(t, "sub_456", row.SubscriptionId)
}

func TestGetStatusRepeatedChecksKeepOneRow(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()

	client := &fakeBillingClient{sub: &billing.Subscription{
		CustomerID:       "cus_123",
		SubscriptionID:   "sub_456",
		Status:           "active",
		CurrentPeriodEnd: time.Now().Add(24 * time.Hour),
	}}
	svc := newTestSubscriptionService(uow, client)

	for i := 0; i < 3; i++ {
		_, err := svc.GetStatus(context.Background(), userId, "user@example.com")
		require.NoError(t, err)
	}

	assert.Len(t, uow.subscriptions.rows, 1, "upsert must never duplicate the row")
}

func TestGetStatusLapsedSubscriptionDropsRow(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	uow.subscriptions.rows = append(uow.subscriptions.rows, &entity.UserSubscription{
		Id:     uuid.New(),
		UserId: userId,
		Status: "active",
	})

	svc := newTestSubscriptionService(uow, &fakeBillingClient{sub: nil})

	res, err := svc.GetStatus(context.Background(), userId, "user@example.com")
	require.NoError(t, err)

	assert.False(t, res.Subscribed)
	assert.Empty(t, res.ProductId)
	assert.Nil(t, res.SubscriptionEnd)
	assert.Empty(t, uow.subscriptions.rows, "stale local row must be removed")
}

func TestGetStatusBillingFailureSurfaces(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := newTestSubscriptionService(uow, &fakeBillingClient{err: assert.AnError})

	_, err := svc.GetStatus(context.Background(), uuid.New(), "user@example.com")
	require.Error(t, err)
	assert.Empty(t, uow.subscriptions.rows)
}
