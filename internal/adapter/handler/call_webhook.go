package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callnote-team/callnote/errors"
	"github.com/callnote-team/callnote/internal/adapter/dto/records"
	"github.com/callnote-team/callnote/internal/usecase/intake"
)

// CallWebhookHandler handles the telephony provider's webhooks: the
// inbound-call answer request and the recording-completion callback.
type CallWebhookHandler struct {
	svc    intake.Service
	logger *zap.Logger
}

// NewCallWebhookHandler creates a new handler
func NewCallWebhookHandler(svc intake.Service, logger *zap.Logger) *CallWebhookHandler {
	return &CallWebhookHandler{svc: svc, logger: logger}
}

// Answer returns the TwiML call-control script for an inbound call.
// Stateless: the request body is not consulted.
func (h *CallWebhookHandler) Answer(c echo.Context) error {
	script, err := h.svc.AnswerScript()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return c.Blob(http.StatusOK, "text/xml", []byte(script))
}

// Complete receives the completion callback and runs the intake pipeline.
// Twilio posts form-encoded fields (RecordingUrl, From); the generic
// deployment variant posts JSON (recording_url, caller).
func (h *CallWebhookHandler) Complete(c echo.Context) error {
	recordingURL, caller, err := completionPayload(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if recordingURL == "" {
		return HandleError(h.logger, c, errors.ErrMissingRecordingURL())
	}

	stored, err := h.svc.ProcessCompletion(c.Request().Context(), recordingURL, caller)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, stored)
}

func completionPayload(c echo.Context) (recordingURL, caller string, err error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var req records.CompletionRequest
		if bindErr := c.Bind(&req); bindErr != nil {
			return "", "", errors.ErrInvalidPayload()
		}
		return req.RecordingURL, req.Caller, nil
	}

	// Twilio's native callback format
	return c.FormValue("RecordingUrl"), c.FormValue("From"), nil
}
