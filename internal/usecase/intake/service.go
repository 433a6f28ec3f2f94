package intake

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/callnote-team/callnote/errors"
	"github.com/callnote-team/callnote/internal/domain/entities"
	"github.com/callnote-team/callnote/internal/domain/repositories"
	"github.com/callnote-team/callnote/internal/infrastructure/external/twilio"
	"github.com/callnote-team/callnote/pkg/config"
)

// Downloader fetches recording audio for a recording reference.
type Downloader interface {
	Download(ctx context.Context, reference string) ([]byte, string, error)
}

// Extractor submits audio to the model and returns its raw text response.
type Extractor interface {
	ExtractSummary(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Archiver stores a copy of the recording audio. Optional.
type Archiver interface {
	ArchiveRecording(ctx context.Context, objectName string, audio []byte, contentType string) error
}

// Service defines the call-intake orchestration methods
type Service interface {
	// AnswerScript returns the TwiML answer for an inbound call under
	// the deployment's intake policy.
	AnswerScript() (string, error)

	// ProcessCompletion runs the completion pipeline for a finished
	// recording: download, extract, persist. Strictly sequential; any
	// failure aborts the remaining steps and nothing is persisted.
	ProcessCompletion(ctx context.Context, recordingURL, callerNumber string) (*entities.CallRecord, error)
}

type intakeService struct {
	downloader Downloader
	extractor  Extractor
	archiver   Archiver // nil when archiving is disabled
	records    repositories.CallRecordRepository
	parser     *Parser
	cfg        *config.Config
	logger     *zap.Logger
}

// NewService constructs the intake service
func NewService(
	downloader Downloader,
	extractor Extractor,
	archiver Archiver,
	records repositories.CallRecordRepository,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &intakeService{
		downloader: downloader,
		extractor:  extractor,
		archiver:   archiver,
		records:    records,
		parser:     NewParser(),
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *intakeService) AnswerScript() (string, error) {
	in := s.cfg.Intake
	var doc *twilio.Response
	switch in.Policy {
	case config.PolicyDial:
		doc = twilio.DialScript(in.Greeting, in.Language, s.cfg.Twilio.ForwardNumber, in.CompletionPath)
	default:
		doc = twilio.RecordScript(in.Greeting, in.Language, in.MaxRecordSecs, in.CompletionPath)
	}
	return doc.Render()
}

func (s *intakeService) ProcessCompletion(ctx context.Context, recordingURL, callerNumber string) (*entities.CallRecord, error) {
	if recordingURL == "" {
		return nil, apperrors.ErrMissingRecordingURL()
	}
	if callerNumber == "" {
		callerNumber = DefaultCaller
	}

	if s.logger != nil {
		s.logger.Info("intake.completion.received",
			zap.String("recording_url", recordingURL),
			zap.String("caller_number", callerNumber),
		)
	}

	audio, mimeType, err := s.downloader.Download(ctx, recordingURL)
	if err != nil {
		return nil, apperrors.ErrRecordingDownload(recordingURL, err)
	}

	// Archival is auxiliary: a failed upload must not abort the intake.
	archiveObject := ""
	if s.archiver != nil {
		archiveObject = fmt.Sprintf("recordings/%s.mp3", uuid.New())
		if err := s.archiver.ArchiveRecording(ctx, archiveObject, audio, mimeType); err != nil {
			if s.logger != nil {
				s.logger.Warn("intake.archive.failed",
					zap.String("object", archiveObject),
					zap.Error(err),
				)
			}
			archiveObject = ""
		}
	}

	text, err := s.extractor.ExtractSummary(ctx, audio, mimeType)
	if err != nil {
		return nil, apperrors.ErrExtractionFailed(err)
	}

	summary, err := s.parser.ParseSummaryResponse(text)
	if err != nil {
		return nil, apperrors.ErrExtractionFailed(err)
	}

	record := entities.NewCallRecord(
		summary.Caller,
		callerNumber,
		summary.Purpose,
		summary.UrgencyLevel(),
		summary.Summary,
		summary.ActionRequired,
	)
	record.ArchiveObject = archiveObject

	stored, err := s.records.Insert(ctx, record)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	if s.logger != nil {
		s.logger.Info("intake.completion.stored",
			zap.String("record_id", stored.ID.String()),
			zap.String("urgency", string(stored.Urgency)),
		)
	}
	return stored, nil
}
