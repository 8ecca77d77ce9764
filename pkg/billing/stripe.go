package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// Subscription is the active subscription found for a customer, if any.
type Subscription struct {
	CustomerID       string
	SubscriptionID   string
	ProductID        string
	PlanName         string
	Status           string
	CurrentPeriodEnd time.Time
}

// Client defines the contract for subscription lookups against the billing
// provider.
type Client interface {
	// ActiveSubscription returns the customer's active subscription, or nil
	// when the customer has none.
	ActiveSubscription(ctx context.Context, email string) (*Subscription, error)
}

type stripeClient struct {
	api *client.API
}

func NewStripeClient(apiKey string) (Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("stripe API key is required")
	}

	api := &client.API{}
	api.Init(apiKey, nil)

	return &stripeClient{api: api}, nil
}

func (s *stripeClient) ActiveSubscription(ctx context.Context, email string) (*Subscription, error) {
	customerParams := &stripe.CustomerListParams{}
	customerParams.Context = ctx
	customerParams.Filters.AddFilter("email", "", email)
	customerParams.Limit = stripe.Int64(1)

	customers := s.api.Customers.List(customerParams)
	if !customers.Next() {
		if err := customers.Err(); err != nil {
			return nil, fmt.Errorf("failed to list customers: %w", err)
		}
		return nil, nil
	}
	customer := customers.Customer()

	subParams := &stripe.SubscriptionListParams{Customer: customer.ID}
	subParams.Context = ctx
	subParams.Limit = stripe.Int64(10)

	subs := s.api.Subscriptions.List(subParams)
	for subs.Next() {
		sub := subs.Subscription()
		if sub.Status != stripe.SubscriptionStatusActive && sub.Status != stripe.SubscriptionStatusTrialing {
			continue
		}

		result := &Subscription{
			CustomerID:       customer.ID,
			SubscriptionID:   sub.ID,
			Status:           string(sub.Status),
			CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0),
		}
		if len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			price := sub.Items.Data[0].Price
			if price.Product != nil {
				result.ProductID = price.Product.ID
			}
			result.PlanName = price.Nickname
		}
		return result, nil
	}
	if err := subs.Err(); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return nil, nil
}
