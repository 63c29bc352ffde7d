package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mess-portal/internal/crud"
	"mess-portal/internal/model"
	"mess-portal/internal/service"
	"mess-portal/internal/session"
	"mess-portal/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// writeError renders err with the same shape the mess API uses, so the
// browser has a single error rendering path.
func writeError(w http.ResponseWriter, err error) {
	var body *apierror.APIError

	if apiErr, ok := apierror.As(err); ok {
		copied := *apiErr
		body = &copied
	} else if errors.Is(err, crud.ErrNotConfirmed) {
		body = apierror.New(http.StatusBadRequest, "Please confirm the deletion.")
	} else if errors.Is(err, crud.ErrModalClosed) {
		body = apierror.New(http.StatusConflict, "Open the form before submitting it.")
	} else if errors.Is(err, crud.ErrNotLoaded) {
		body = apierror.New(http.StatusNotFound, "Item not found.")
	} else if errors.Is(err, crud.ErrReadOnly) {
		body = apierror.New(http.StatusMethodNotAllowed, "This table cannot be modified.")
	} else if errors.Is(err, service.ErrPaymentNotConfigured) {
		body = apierror.New(http.StatusServiceUnavailable, paymentsMissingMessage)
	} else if errors.Is(err, session.ErrMissingToken) {
		body = apierror.New(http.StatusBadGateway, "Login response did not include an access token.")
	} else if errors.Is(err, model.ErrMalformedPage) || errors.Is(err, model.ErrInvalidPage) {
		body = apierror.New(http.StatusBadGateway, "The mess service returned an invalid page.")
	} else if errors.Is(err, model.ErrInvalidInput) {
		body = apierror.New(http.StatusBadRequest, "Invalid input.")
	} else if errors.Is(err, context.DeadlineExceeded) {
		body = apierror.New(http.StatusGatewayTimeout, "The mess service took too long to respond.")
	} else {
		// Transport failures and anything unclassified.
		slog.Error("unhandled error in writeError", "error", err.Error())
		body = apierror.New(http.StatusBadGateway, "Could not reach the mess service. Please try again later.")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
