package dto

import "time"

type SubscriptionStatusResponse struct {
	Subscribed      bool       `json:"subscribed"`
	ProductId       string     `json:"product_id,omitempty"`
	PlanName        string     `json:"plan_name,omitempty"`
	SubscriptionEnd *time.Time `json:"subscription_end,omitempty"`
}
