package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/voice2ticket/internal/config"
	"github.com/spec-kit/voice2ticket/internal/domain"
	"github.com/spec-kit/voice2ticket/internal/repository"
	"github.com/spec-kit/voice2ticket/internal/storage"
	apperrors "github.com/spec-kit/voice2ticket/pkg/util/errorutil"
)

const (
	defaultLanguageCode = "en-US"
	maxSpeakerLabels    = 2
	jobNamePrefix       = "transcribe-"
)

// Requester metadata keys on the uploaded audio object.
const (
	MetadataRequesterName    = "requester-name"
	MetadataRequesterContact = "requester-contact"
)

var supportedFormats = map[string]string{
	".mp3": "mp3",
	".wav": "wav",
	".mp4": "mp4",
}

// DispatchService submits transcription jobs for uploaded audio.
type DispatchService struct {
	jobs   repository.TranscriptionJobRepository
	logger *zap.Logger
	cfg    config.PipelineConfig
}

// DispatchDependencies bundles collaborators for the dispatch service.
type DispatchDependencies struct {
	JobRepo repository.TranscriptionJobRepository
	Logger  *zap.Logger
	Config  config.PipelineConfig
}

// DispatchResult names the submitted job.
type DispatchResult struct {
	JobName string
	Message string
}

// NewDispatchService constructs the service.
func NewDispatchService(deps DispatchDependencies) *DispatchService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatchService{jobs: deps.JobRepo, logger: logger, cfg: deps.Config}
}

// StartTranscription validates the audio object and queues a job for it.
func (s *DispatchService) StartTranscription(ctx context.Context, obj ObjectRef) (*DispatchResult, error) {
	if obj.Bucket == "" || obj.Key == "" {
		return nil, apperrors.NewMalformedTrigger("Invalid event structure: bucket and key required", nil)
	}

	ext := strings.ToLower(path.Ext(obj.Key))
	format, ok := supportedFormats[ext]
	if !ok {
		s.logger.Info("skipping unsupported file format", zap.String("key", obj.Key))
		return nil, apperrors.NewUnsupportedFormat(ext)
	}

	if s.cfg.TranscriptsBucket == "" {
		return nil, apperrors.NewConfigurationError("TRANSCRIPTS_BUCKET not configured")
	}
	language := s.cfg.LanguageCode
	if language == "" {
		language = defaultLanguageCode
	}

	name := jobNamePrefix + uuid.NewString()
	job := &domain.TranscriptionJob{
		Name:         name,
		Status:       domain.JobStatusQueued,
		MediaURI:     storage.URI(obj.Bucket, obj.Key),
		MediaFormat:  format,
		LanguageCode: language,
		OutputBucket: s.cfg.TranscriptsBucket,
		OutputKey:    name + ".json",
		Settings: domain.JobSettings{
			ShowSpeakerLabels: true,
			MaxSpeakerLabels:  maxSpeakerLabels,
		},
		Requester: requesterFromMetadata(obj.Metadata),
	}

	s.logger.Info("starting transcription", zap.String("job", name), zap.String("media_uri", job.MediaURI))
	if err := s.jobs.Start(ctx, job); err != nil {
		return nil, fmt.Errorf("start transcription job %s: %w", name, err)
	}

	return &DispatchResult{
		JobName: name,
		Message: fmt.Sprintf("Transcription job started: %s", name),
	}, nil
}

// requesterFromMetadata matches keys case-insensitively and by suffix, so
// both "requester-name" and "X-Amz-Meta-Requester-Name" resolve.
func requesterFromMetadata(metadata map[string]string) domain.UserInfo {
	var info domain.UserInfo
	for k, v := range metadata {
		key := strings.ToLower(k)
		switch {
		case strings.HasSuffix(key, MetadataRequesterName):
			info.Name = v
		case strings.HasSuffix(key, MetadataRequesterContact):
			info.Contact = v
		}
	}
	return info
}
