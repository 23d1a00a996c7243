// Package api holds the response envelopes shared by every handler.
package api

// ErrorResponse wraps a human-readable error for JSON error replies.
type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

// HealthResponse is returned by the health probe endpoint.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
