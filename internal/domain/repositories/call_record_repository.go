package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/callnote-team/callnote/internal/domain/entities"
)

// RecordUpdate carries the editable fields of a call record. Nil fields
// are left untouched by UpdateByID.
type RecordUpdate struct {
	Caller         *string
	CallerNumber   *string
	Purpose        *string
	ActionRequired []string
	Urgency        *entities.UrgencyLevel
	Summary        *string
	Saved          *bool
}

// CallRecordRepository defines the interface for call record data access
type CallRecordRepository interface {
	// Insert persists a new record, assigning identifier and creation
	// timestamp, and returns the stored row.
	Insert(ctx context.Context, record *entities.CallRecord) (*entities.CallRecord, error)

	// ListAll returns every record ordered by creation timestamp,
	// newest first.
	ListAll(ctx context.Context) ([]*entities.CallRecord, error)

	// UpdateByID merges the given fields into the existing row and
	// returns the updated row. Returns entities.ErrCallRecordNotFound
	// when no row matches.
	UpdateByID(ctx context.Context, id uuid.UUID, update RecordUpdate) (*entities.CallRecord, error)
}
