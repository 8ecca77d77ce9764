package model

import (
	"time"

	"github.com/google/uuid"
)

type UserSubscription struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"` // upsert keyed on user id
	CustomerId       string    `gorm:"type:varchar(255);not null"`
	SubscriptionId   string    `gorm:"type:varchar(255);not null"`
	ProductId        string    `gorm:"type:varchar(255)"`
	PlanName         string    `gorm:"type:varchar(255)"`
	Status           string    `gorm:"type:varchar(50);not null"`
	CurrentPeriodEnd time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}
