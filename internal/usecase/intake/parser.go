package intake

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/callnote-team/callnote/internal/domain/entities"
)

// DefaultCaller is used when the caller did not give a name. The
// extraction prompt instructs the model to emit this value itself, but
// the parser enforces it for responses that omit the field entirely.
const DefaultCaller = "不明"

// StructuredSummary is the five-field object extracted from a call recording.
type StructuredSummary struct {
	Caller         string   `json:"caller"`
	Purpose        string   `json:"purpose"`
	ActionRequired []string `json:"action_required"`
	Urgency        string   `json:"urgency"`
	Summary        string   `json:"summary"`
}

// Parser handles parsing and validation of Gemini responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseSummaryResponse parses the model text into a StructuredSummary.
//
// Field policy: purpose and summary are required; caller falls back to
// DefaultCaller; urgency falls back to empty (displayed as the unknown
// category); action_required falls back to the empty sequence.
func (p *Parser) ParseSummaryResponse(text string) (*StructuredSummary, error) {
	text = extractJSON(text)

	var result StructuredSummary
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if result.Purpose == "" {
		return nil, fmt.Errorf("missing purpose in response")
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("missing summary in response")
	}
	if result.Caller == "" {
		result.Caller = DefaultCaller
	}
	if result.ActionRequired == nil {
		result.ActionRequired = make([]string, 0)
	}

	return &result, nil
}

// UrgencyLevel converts the raw urgency string to the entity type.
func (s *StructuredSummary) UrgencyLevel() entities.UrgencyLevel {
	return entities.UrgencyLevel(s.Urgency)
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
