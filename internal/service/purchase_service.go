package service

import (
	"context"
	"net/http"

	"mess-portal/internal/apiclient"
	"mess-portal/internal/model"
)

type PurchaseService struct {
	base
	payments PaymentConfig
}

func NewPurchaseService(api apiclient.Doer, tokens TokenSource, payments PaymentConfig) *PurchaseService {
	return &PurchaseService{base: base{api: api, tokens: tokens}, payments: payments}
}

// Initiate starts a dish purchase and returns the payment session id.
func (s *PurchaseService) Initiate(ctx context.Context, req model.DishPurchaseRequest) (string, error) {
	if err := model.Validate(req); err != nil {
		return "", err
	}

	var sessionID string
	if err := s.send(ctx, http.MethodPost, "/purchases", "/purchases", req, &sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Checkout initiates a dish purchase and pairs the session id with the
// publishable key.
func (s *PurchaseService) Checkout(ctx context.Context, req model.DishPurchaseRequest) (model.CheckoutSession, error) {
	if !s.payments.Configured() {
		return model.CheckoutSession{}, ErrPaymentNotConfigured
	}

	sessionID, err := s.Initiate(ctx, req)
	if err != nil {
		return model.CheckoutSession{}, err
	}

	return model.CheckoutSession{SessionID: sessionID, PublishableKey: s.payments.PublishableKey}, nil
}

func (s *PurchaseService) MyHistory(ctx context.Context, req model.PageRequest) (model.Page[model.Purchase], error) {
	var page model.Page[model.Purchase]
	if err := s.get(ctx, "/purchases/my-history", "/purchases/my-history", pageQuery(req, ""), &page); err != nil {
		return model.Page[model.Purchase]{}, err
	}
	return page, nil
}
