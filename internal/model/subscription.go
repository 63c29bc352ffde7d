package model

type SubscriptionStatus string

const (
	SubscriptionActive         SubscriptionStatus = "ACTIVE"
	SubscriptionPendingPayment SubscriptionStatus = "PENDING_PAYMENT"
	SubscriptionExpired        SubscriptionStatus = "EXPIRED"
	SubscriptionCancelled      SubscriptionStatus = "CANCELLED"
	SubscriptionNoHistory      SubscriptionStatus = "NO_SUBSCRIPTION_HISTORY"
)

type MySubscriptionStatus struct {
	SubscriptionID       *int64             `json:"subscriptionId"`
	StripeSubscriptionID *string            `json:"stripeSubscriptionId"`
	Status               SubscriptionStatus `json:"status"`
	StartDate            *string            `json:"startDate"`
	EndDate              *string            `json:"endDate"`
	PlanName             *string            `json:"planName"`
	AmountPaid           *float64           `json:"amountPaid"`
	CreatedAt            *string            `json:"createdAt"`
}

func (s *MySubscriptionStatus) IsActive() bool {
	return s != nil && s.Status == SubscriptionActive
}

type SubscriptionPurchaseRequest struct {
	StripePriceID string `json:"stripePriceId,omitempty"`
}
