// Package service wraps each remote resource behind a typed API. Services never
// swallow errors: callers get the normalized gateway error back.
package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mess-portal/internal/apiclient"
	"mess-portal/internal/model"
)

var ErrPaymentNotConfigured = errors.New("payment provider is not configured")

// TokenSource yields the bearer token for the current session. An empty token
// sends the request without an Authorization header.
type TokenSource interface {
	AccessToken() string
}

// PaymentConfig holds the payment-provider values the browser needs to start a
// checkout. Both are required before any purchase flow is attempted.
type PaymentConfig struct {
	PublishableKey string
	PriceID        string
}

func (c PaymentConfig) Configured() bool {
	return strings.TrimSpace(c.PublishableKey) != "" && strings.TrimSpace(c.PriceID) != ""
}

// base carries the gateway and token shared by every resource service.
type base struct {
	api    apiclient.Doer
	tokens TokenSource
}

func (b base) token() string {
	if b.tokens == nil {
		return ""
	}
	return b.tokens.AccessToken()
}

func (b base) get(ctx context.Context, path string, route string, query url.Values, out any) error {
	return b.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   path,
		Route:  route,
		Query:  query,
		Token:  b.token(),
	}, out)
}

func (b base) send(ctx context.Context, method string, path string, route string, body any, out any) error {
	return b.api.Do(ctx, apiclient.Request{
		Method: method,
		Path:   path,
		Route:  route,
		Body:   body,
		Token:  b.token(),
	}, out)
}

func pageQuery(req model.PageRequest, defaultSort string) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(req.Page))
	query.Set("size", strconv.Itoa(req.Size))

	sort := req.Sort
	if sort == "" {
		sort = defaultSort
	}
	if sort != "" {
		query.Set("sort", sort)
	}

	return query
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}
