package handlers

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Error message"`
}

// MessageResponse represents a simple confirmation response
type MessageResponse struct {
	Message string `json:"message" example:"Successfully logged out"`
}
