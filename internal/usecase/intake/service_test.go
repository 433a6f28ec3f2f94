package intake

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/callnote-team/callnote/errors"
	"github.com/callnote-team/callnote/internal/domain/entities"
	"github.com/callnote-team/callnote/internal/domain/repositories"
	"github.com/callnote-team/callnote/pkg/config"
)

const modelResponse = `{"caller":"Tanaka","purpose":"Quote request","action_required":["Send quote"],"urgency":"中","summary":"Caller requests a quote."}`

type fakeDownloader struct {
	audio []byte
	err   error
}

func (f *fakeDownloader) Download(ctx context.Context, reference string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.audio, "audio/mpeg", nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractSummary(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeArchiver struct {
	objects []string
	err     error
}

func (f *fakeArchiver) ArchiveRecording(ctx context.Context, objectName string, audio []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.objects = append(f.objects, objectName)
	return nil
}

type memoryRepo struct {
	records []*entities.CallRecord
	err     error
}

func (m *memoryRepo) Insert(ctx context.Context, record *entities.CallRecord) (*entities.CallRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.records = append(m.records, record)
	return record, nil
}

func (m *memoryRepo) ListAll(ctx context.Context) ([]*entities.CallRecord, error) {
	out := make([]*entities.CallRecord, len(m.records))
	copy(out, m.records)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *memoryRepo) UpdateByID(ctx context.Context, id uuid.UUID, update repositories.RecordUpdate) (*entities.CallRecord, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, entities.ErrCallRecordNotFound
}

func testConfig(policy string) *config.Config {
	return &config.Config{
		Twilio: config.TwilioConfig{ForwardNumber: "+815011112222"},
		Intake: config.IntakeConfig{
			Policy:         policy,
			Greeting:       "お電話ありがとうございます。発信音の後にご用件をお話しください。",
			Language:       "ja-JP",
			MaxRecordSecs:  120,
			CompletionPath: "/twilio/complete",
		},
	}
}

func newTestService(d Downloader, x Extractor, a Archiver, repo repositories.CallRecordRepository) Service {
	return NewService(d, x, a, repo, testConfig(config.PolicyRecord), nil)
}

func TestAnswerScript_RecordPolicy(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, testConfig(config.PolicyRecord), nil)

	script, err := svc.AnswerScript()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(script, "<?xml"))
	assert.Contains(t, script, `<Say language="ja-JP">お電話ありがとうございます。発信音の後にご用件をお話しください。</Say>`)
	assert.Contains(t, script, `maxLength="120"`)
	assert.Contains(t, script, `action="/twilio/complete"`)
	assert.NotContains(t, script, "<Dial")
}

func TestAnswerScript_DialPolicy(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, testConfig(config.PolicyDial), nil)

	script, err := svc.AnswerScript()
	require.NoError(t, err)
	assert.Contains(t, script, `record="record-from-answer"`)
	assert.Contains(t, script, `recordingStatusCallback="/twilio/complete"`)
	assert.Contains(t, script, "+815011112222")
	assert.NotContains(t, script, "<Record")
}

func TestProcessCompletion_StoresRecord(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(
		&fakeDownloader{audio: []byte("audio-bytes")},
		&fakeExtractor{text: modelResponse},
		nil,
		repo,
	)

	stored, err := svc.ProcessCompletion(context.Background(), "https://example/rec123", "+819012345678")
	require.NoError(t, err)
	require.Len(t, repo.records, 1)

	assert.Equal(t, "Tanaka", stored.Caller)
	assert.Equal(t, "+819012345678", stored.CallerNumber)
	assert.Equal(t, "Quote request", stored.Purpose)
	assert.Equal(t, entities.UrgencyMedium, stored.Urgency)
	assert.Equal(t, []string{"Send quote"}, stored.ActionItems())
	assert.Equal(t, "Caller requests a quote.", stored.Summary)
	assert.False(t, stored.Saved)
}

func TestProcessCompletion_MissingRecordingURL(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(&fakeDownloader{}, &fakeExtractor{}, nil, repo)

	_, err := svc.ProcessCompletion(context.Background(), "", "+819012345678")
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MISSING_RECORDING_URL, appErr.Code)
	assert.Empty(t, repo.records)
}

func TestProcessCompletion_DownloadFailureAborts(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(
		&fakeDownloader{err: errors.New("connection refused")},
		&fakeExtractor{text: modelResponse},
		nil,
		repo,
	)

	_, err := svc.ProcessCompletion(context.Background(), "https://example/rec123", "+819012345678")
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_RECORDING_DOWNLOAD_FAILED, appErr.Code)
	assert.Empty(t, repo.records, "no partial record on failed download")
}

func TestProcessCompletion_ExtractionFailureAborts(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(
		&fakeDownloader{audio: []byte("audio")},
		&fakeExtractor{text: "not a json object"},
		nil,
		repo,
	)

	_, err := svc.ProcessCompletion(context.Background(), "https://example/rec123", "+819012345678")
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_EXTRACTION_FAILED, appErr.Code)
	assert.Empty(t, repo.records, "no partial record on failed extraction")
}

func TestProcessCompletion_PersistenceFailure(t *testing.T) {
	repo := &memoryRepo{err: errors.New("db unreachable")}
	svc := newTestService(
		&fakeDownloader{audio: []byte("audio")},
		&fakeExtractor{text: modelResponse},
		nil,
		repo,
	)

	_, err := svc.ProcessCompletion(context.Background(), "https://example/rec123", "+819012345678")
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_PERSISTENCE_FAILED, appErr.Code)
}

func TestProcessCompletion_ArchivesRecording(t *testing.T) {
	repo := &memoryRepo{}
	archiver := &fakeArchiver{}
	svc := newTestService(
		&fakeDownloader{audio: []byte("audio")},
		&fakeExtractor{text: modelResponse},
		archiver,
		repo,
	)

	stored, err := svc.ProcessCompletion(context.Background(), "https://example/rec123", "+819012345678")
	require.NoError(t, err)
	require.Len(t, archiver.objects, 1)
	assert.Equal(t, archiver.objects[0], stored.ArchiveObject)
	assert.True(t, strings.HasPrefix(stored.ArchiveObject, "recordings/"))
}

func TestProcessCompletion_ArchiveFailureIsNotFatal(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(
		&fakeDownloader{audio: []byte("audio")},
		&fakeExtractor{text: modelResponse},
		&fakeArchiver{err: errors.New("bucket gone")},
		repo,
	)

	stored, err := svc.ProcessCompletion(context.Background(), "https://example/rec123", "+819012345678")
	require.NoError(t, err)
	assert.Empty(t, stored.ArchiveObject)
	assert.Len(t, repo.records, 1)
}

func TestProcessCompletion_DefaultsCallerNumber(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(
		&fakeDownloader{audio: []byte("audio")},
		&fakeExtractor{text: modelResponse},
		nil,
		repo,
	)

	stored, err := svc.ProcessCompletion(context.Background(), "https://example/rec123", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCaller, stored.CallerNumber)
}
