package handler

import (
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callnote-team/callnote/errors"
	"github.com/callnote-team/callnote/internal/adapter/dto/records"
	"github.com/callnote-team/callnote/internal/domain/entities"
	"github.com/callnote-team/callnote/internal/domain/repositories"
)

// RecordsHandler serves the dashboard's read and update APIs.
type RecordsHandler struct {
	repo   repositories.CallRecordRepository
	logger *zap.Logger
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(repo repositories.CallRecordRepository, logger *zap.Logger) *RecordsHandler {
	return &RecordsHandler{repo: repo, logger: logger}
}

// List returns all call records, newest first.
func (h *RecordsHandler) List(c echo.Context) error {
	all, err := h.repo.ListAll(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrPersistence(err))
	}
	if all == nil {
		all = []*entities.CallRecord{}
	}
	return HandleSuccess(h.logger, c, all)
}

// Update merges the editable fields of a record and returns the updated row.
func (h *RecordsHandler) Update(c echo.Context) error {
	var req records.UpdateRecordRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	update := repositories.RecordUpdate{
		Caller:         req.Caller,
		CallerNumber:   req.CallerNumber,
		Purpose:        req.Purpose,
		ActionRequired: req.ActionRequired,
		Summary:        req.Summary,
		Saved:          req.Saved,
	}
	if req.Urgency != nil {
		urgency := entities.UrgencyLevel(*req.Urgency)
		update.Urgency = &urgency
	}

	updated, err := h.repo.UpdateByID(c.Request().Context(), id, update)
	if err != nil {
		if stdErrors.Is(err, entities.ErrCallRecordNotFound) {
			return HandleError(h.logger, c, errors.ErrRecordNotFound(req.ID))
		}
		return HandleError(h.logger, c, errors.ErrPersistence(err))
	}
	return HandleSuccess(h.logger, c, updated)
}
