package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserSubscription mirrors the payment processor's active subscription for
// one user. At most one row exists per user; the row is upserted on every
// check and removed when no active subscription is found.
type UserSubscription struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	CustomerId       string
	SubscriptionId   string
	ProductId        string
	PlanName         string
	Status           string
	CurrentPeriodEnd time.Time
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
