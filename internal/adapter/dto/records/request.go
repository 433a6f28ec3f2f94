package records

// CompletionRequest is the JSON variant of the completion webhook body.
// The telephony provider's own callback arrives form-encoded instead
// (fields RecordingUrl / From) and is decoded directly in the handler.
type CompletionRequest struct {
	RecordingURL string `json:"recording_url"`
	Caller       string `json:"caller"`
}

// UpdateRecordRequest carries the identifier plus any subset of editable
// fields. Nil fields are left untouched.
type UpdateRecordRequest struct {
	ID             string   `json:"id" validate:"required,uuid"`
	Caller         *string  `json:"caller,omitempty"`
	CallerNumber   *string  `json:"caller_number,omitempty"`
	Purpose        *string  `json:"purpose,omitempty"`
	ActionRequired []string `json:"action_required,omitempty"`
	Urgency        *string  `json:"urgency,omitempty" validate:"omitempty,urgency"`
	Summary        *string  `json:"summary,omitempty"`
	Saved          *bool    `json:"saved,omitempty"`
}
