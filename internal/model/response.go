package model

import "mess-portal/pkg/apierror"

type APIResponse struct {
	Success bool               `json:"success"`
	Data    any                `json:"data,omitempty"`
	Error   *apierror.APIError `json:"error,omitempty"`
	Meta    *Meta              `json:"meta,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
