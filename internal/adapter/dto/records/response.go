package records

// APIResponse is the envelope for every records/webhook JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Ok wraps data in a success envelope.
func Ok(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// Fail wraps an error message in a failure envelope.
func Fail(message string) APIResponse {
	return APIResponse{Success: false, Error: message}
}
