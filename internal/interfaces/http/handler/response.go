package handler

import "github.com/erp/lobapi/internal/interfaces/http/dto"

// Envelope types below only describe response shapes in the OpenAPI document;
// handlers write dto.Response.

// APIResponse is the envelope of a single-resource response
// @Description Success envelope wrapping one resource
type APIResponse[T any] struct {
	Success bool `json:"success" example:"true"`
	Data    T    `json:"data"`
}

// ListResponse is the envelope of a paged search
// @Description Success envelope wrapping one page of resources
type ListResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    []T       `json:"data"`
	Meta    *dto.Meta `json:"meta"`
}

// ErrorResponse is the envelope of every 4xx and 5xx response
// @Description Failure envelope carrying the error code, message and request id
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
