package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/callnote-team/callnote/internal/domain/entities"
	"github.com/callnote-team/callnote/internal/domain/repositories"
)

// CallRecordRepository implements the call record repository interface using GORM
type CallRecordRepository struct {
	db *gorm.DB
}

// NewCallRecordRepository creates a new call record repository
func NewCallRecordRepository(db *gorm.DB) *CallRecordRepository {
	return &CallRecordRepository{
		db: db,
	}
}

// Insert persists a new record and returns the stored row.
func (r *CallRecordRepository) Insert(ctx context.Context, record *entities.CallRecord) (*entities.CallRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to insert call record: %w", err)
	}

	var stored entities.CallRecord
	if err := r.db.WithContext(ctx).Where("id = ?", record.ID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to read back call record: %w", err)
	}
	return &stored, nil
}

// ListAll returns every record, newest first.
func (r *CallRecordRepository) ListAll(ctx context.Context) ([]*entities.CallRecord, error) {
	var records []*entities.CallRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list call records: %w", err)
	}
	return records, nil
}

// UpdateByID merges the given fields into the existing row and returns
// the updated row.
func (r *CallRecordRepository) UpdateByID(ctx context.Context, id uuid.UUID, update repositories.RecordUpdate) (*entities.CallRecord, error) {
	fields := make(map[string]interface{})
	if update.Caller != nil {
		fields["caller"] = *update.Caller
	}
	if update.CallerNumber != nil {
		fields["caller_number"] = *update.CallerNumber
	}
	if update.Purpose != nil {
		fields["purpose"] = *update.Purpose
	}
	if update.ActionRequired != nil {
		encoded, err := json.Marshal(update.ActionRequired)
		if err != nil {
			return nil, fmt.Errorf("failed to encode action items: %w", err)
		}
		fields["action_required"] = datatypes.JSON(encoded)
	}
	if update.Urgency != nil {
		fields["urgency"] = *update.Urgency
	}
	if update.Summary != nil {
		fields["summary"] = *update.Summary
	}
	if update.Saved != nil {
		fields["saved"] = *update.Saved
	}

	if len(fields) > 0 {
		result := r.db.WithContext(ctx).
			Model(&entities.CallRecord{}).
			Where("id = ?", id).
			Updates(fields)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update call record: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, entities.ErrCallRecordNotFound
		}
	}

	var updated entities.CallRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&updated).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrCallRecordNotFound
		}
		return nil, fmt.Errorf("failed to read back call record: %w", err)
	}
	return &updated, nil
}
