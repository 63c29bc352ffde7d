package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"mess-portal/internal/model"
	"mess-portal/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return apierror.New(http.StatusBadRequest, "Invalid JSON body.")
	}
	return nil
}

// pageParams reads the zero-based page and size query values.
func pageParams(r *http.Request) (int, int, error) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		return 0, 0, err
	}
	size, err := queryInt(r, "size", 0)
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, apierror.New(http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer", key),
			apierror.FieldError{Field: key, Message: "must be a non-negative integer"})
	}
	return value, nil
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", model.ErrInvalidInput, raw)
	}
	return id, nil
}

func queryBool(r *http.Request, key string) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && value
}

// safeRedirect keeps post-login navigation on this site.
func safeRedirect(target string, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
