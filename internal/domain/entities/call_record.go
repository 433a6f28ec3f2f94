package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UrgencyLevel is the closed set of urgency values the extraction model
// is instructed to emit. Any other value renders as UrgencyUnknown.
type UrgencyLevel string

const (
	UrgencyHigh   UrgencyLevel = "高"
	UrgencyMedium UrgencyLevel = "中"
	UrgencyLow    UrgencyLevel = "低"
)

// UrgencyCategory is the display bucket for an urgency value.
type UrgencyCategory string

const (
	UrgencyCategoryHigh    UrgencyCategory = "high"
	UrgencyCategoryMedium  UrgencyCategory = "medium"
	UrgencyCategoryLow     UrgencyCategory = "low"
	UrgencyCategoryUnknown UrgencyCategory = "unknown"
)

// DisplayCategory maps an urgency value to its display bucket.
func (u UrgencyLevel) DisplayCategory() UrgencyCategory {
	switch u {
	case UrgencyHigh:
		return UrgencyCategoryHigh
	case UrgencyMedium:
		return UrgencyCategoryMedium
	case UrgencyLow:
		return UrgencyCategoryLow
	}
	return UrgencyCategoryUnknown
}

// CallRecord is one summarized call. Created exactly once by the intake
// pipeline, mutated only by the dashboard's save action, never deleted.
type CallRecord struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	Caller       string       `json:"caller" gorm:"type:text;not null"`
	CallerNumber string       `json:"caller_number" gorm:"type:text;not null"`
	Purpose      string       `json:"purpose" gorm:"type:text;not null"`
	Urgency      UrgencyLevel `json:"urgency" gorm:"type:varchar(10)"`
	Summary      string       `json:"summary" gorm:"type:text;not null"`

	// Ordered sequence of free-text follow-up items, stored as a JSON
	// array. An absent value reads back as the empty sequence.
	ActionRequired datatypes.JSON `json:"action_required" gorm:"type:jsonb;default:'[]'"`

	// Object-storage key of the archived audio, empty when archiving
	// is disabled.
	ArchiveObject string `json:"archive_object,omitempty" gorm:"type:text"`

	// Saved marks that a human exported this record externally.
	Saved bool `json:"saved" gorm:"default:false;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the GORM default pluralization
func (CallRecord) TableName() string {
	return "call_records"
}

// NewCallRecord creates a record with a fresh identifier.
func NewCallRecord(caller, callerNumber, purpose string, urgency UrgencyLevel, summary string, actionItems []string) *CallRecord {
	r := &CallRecord{
		ID:           uuid.New(),
		Caller:       caller,
		CallerNumber: callerNumber,
		Purpose:      purpose,
		Urgency:      urgency,
		Summary:      summary,
	}
	r.SetActionItems(actionItems)
	return r
}

// ActionItems decodes the persisted action-item sequence. Absent or
// malformed data yields the empty sequence rather than an error; the
// column is only ever written through SetActionItems.
func (r *CallRecord) ActionItems() []string {
	if len(r.ActionRequired) == 0 {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal(r.ActionRequired, &items); err != nil || items == nil {
		return []string{}
	}
	return items
}

// SetActionItems encodes the given sequence into the persisted column.
// A nil sequence is stored as the empty array.
func (r *CallRecord) SetActionItems(items []string) {
	if items == nil {
		items = []string{}
	}
	encoded, _ := json.Marshal(items)
	r.ActionRequired = datatypes.JSON(encoded)
}
