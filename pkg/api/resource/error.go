package resource

// ErrorResource is the uniform error body of the API
type ErrorResource struct {
	Error     string `json:"error"`
	SessionID string `json:"session_id,omitempty"`
}

func NewError(msg string) *ErrorResource {
	return &ErrorResource{Error: msg}
}
