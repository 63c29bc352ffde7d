package service

import (
	"context"
	"net/http"

	"mess-portal/internal/apiclient"
	"mess-portal/internal/model"
	"mess-portal/pkg/apierror"
)

type SubscriptionService struct {
	base
	payments PaymentConfig
}

func NewSubscriptionService(api apiclient.Doer, tokens TokenSource, payments PaymentConfig) *SubscriptionService {
	return &SubscriptionService{base: base{api: api, tokens: tokens}, payments: payments}
}

// MyStatus returns nil without an error when the user has no subscription; the
// server signals that with a 404.
func (s *SubscriptionService) MyStatus(ctx context.Context) (*model.MySubscriptionStatus, error) {
	var status model.MySubscriptionStatus
	err := s.get(ctx, "/subscriptions/my-status", "/subscriptions/my-status", nil, &status)
	if apierror.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Purchase starts a subscription checkout and returns the payment session id.
func (s *SubscriptionService) Purchase(ctx context.Context, req model.SubscriptionPurchaseRequest) (string, error) {
	var sessionID string
	if err := s.send(ctx, http.MethodPost, "/subscriptions/purchase", "/subscriptions/purchase", req, &sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Checkout purchases the configured subscription plan and returns what the
// browser needs to redirect to the payment provider.
func (s *SubscriptionService) Checkout(ctx context.Context) (model.CheckoutSession, error) {
	if !s.payments.Configured() {
		return model.CheckoutSession{}, ErrPaymentNotConfigured
	}

	sessionID, err := s.Purchase(ctx, model.SubscriptionPurchaseRequest{StripePriceID: s.payments.PriceID})
	if err != nil {
		return model.CheckoutSession{}, err
	}

	return model.CheckoutSession{SessionID: sessionID, PublishableKey: s.payments.PublishableKey}, nil
}

func (s *SubscriptionService) PaymentsConfigured() bool {
	return s.payments.Configured()
}
