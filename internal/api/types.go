package api

import "time"

// ViewerAuthRequest represents the request payload for viewer authentication
type ViewerAuthRequest struct {
	Name string `json:"name"`
}

// ViewerAuthResponse represents the response payload for viewer authentication
type ViewerAuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ViewerID  string    `json:"viewer_id"`
}

// NarrationToggleRequest represents the explicit user action that
// enables or disables narration
type NarrationToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
