package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/voice2ticket/internal/config"
	"github.com/spec-kit/voice2ticket/internal/domain"
	"github.com/spec-kit/voice2ticket/internal/repository"
	"github.com/spec-kit/voice2ticket/internal/storage"
	"github.com/spec-kit/voice2ticket/internal/transcript"
	apperrors "github.com/spec-kit/voice2ticket/pkg/util/errorutil"
)

const (
	defaultPriority    = "Medium"
	auditTitleFragment = 40
)

// IngestionService turns an arrived transcript into a ticket on the external API.
type IngestionService struct {
	storage  ObjectStorage
	jobs     repository.TranscriptionJobRepository
	resolver ConfigResolver
	delivery TicketDeliverer
	audits   repository.TicketAuditRepository
	logger   *zap.Logger
	cfg      config.PipelineConfig
	now      func() time.Time
}

// IngestionDependencies bundles collaborators for the ingestion service.
// JobRepo and AuditRepo are optional.
type IngestionDependencies struct {
	Storage   ObjectStorage
	JobRepo   repository.TranscriptionJobRepository
	Resolver  ConfigResolver
	Delivery  TicketDeliverer
	AuditRepo repository.TicketAuditRepository
	Logger    *zap.Logger
	Config    config.PipelineConfig
	Now       func() time.Time
}

// IngestionResult summarizes the external API's answer.
type IngestionResult struct {
	APIResponse domain.APIResponse `json:"apiResponse"`
}

// NewIngestionService constructs the service.
func NewIngestionService(deps IngestionDependencies) *IngestionService {
	now := deps.Now
	if now == nil {
		now = systemNow
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestionService{
		storage:  deps.Storage,
		jobs:     deps.JobRepo,
		resolver: deps.Resolver,
		delivery: deps.Delivery,
		audits:   deps.AuditRepo,
		logger:   logger,
		cfg:      deps.Config,
		now:      now,
	}
}

// Ingest reads the transcript named by obj and delivers a ticket for it.
// A non-2xx answer from the API is returned as data, not as an error.
func (s *IngestionService) Ingest(ctx context.Context, obj ObjectRef) (*IngestionResult, error) {
	uri := storage.URI(obj.Bucket, obj.Key)
	s.logger.Info("transcript arrived", zap.String("uri", uri))

	data, err := s.storage.Get(ctx, obj.Bucket, obj.Key)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", uri, err)
	}
	parsed, err := transcript.Parse(data)
	if err != nil {
		return nil, err
	}

	title := transcript.Title(parsed.Text)
	payload := map[string]any{
		"title":       title,
		"description": parsed.Text,
		"priority":    defaultPriority,
	}
	if parsed.JobName != "" {
		payload["client_ticket_id"] = parsed.JobName
		if audioURL := s.audioURL(ctx, parsed.JobName); audioURL != "" {
			payload["audio_url"] = audioURL
		}
	}

	apiCfg := s.resolver.Resolve(ctx)
	if strings.TrimSpace(apiCfg.URL) == "" {
		return nil, apperrors.NewConfigurationError("Ticket API URL not configured")
	}

	resp, err := s.delivery.Post(ctx, apiCfg, payload)
	if err != nil {
		return nil, err
	}

	apiResponse := domain.APIResponse{StatusCode: resp.StatusCode, Body: resp.Body}
	s.storeAudit(ctx, payload, apiResponse)

	s.logger.Info("ticket creation result",
		zap.String("title", title),
		zap.Int("status_code", resp.StatusCode))
	return &IngestionResult{APIResponse: apiResponse}, nil
}

// audioURL links the ticket to the original recording when the job is still known.
func (s *IngestionService) audioURL(ctx context.Context, jobName string) string {
	if s.jobs == nil {
		return ""
	}
	job, err := s.jobs.Get(ctx, jobName)
	if err != nil {
		s.logger.Debug("no job record for transcript", zap.String("job", jobName), zap.Error(err))
		return ""
	}
	bucket, key, err := storage.ParseURI(job.MediaURI)
	if err != nil {
		s.logger.Warn("job media uri unusable", zap.String("job", jobName), zap.Error(err))
		return ""
	}
	url, err := s.storage.PresignGet(ctx, bucket, key, s.cfg.PresignExpiry())
	if err != nil {
		s.logger.Warn("presign audio failed", zap.String("job", jobName), zap.Error(err))
		return ""
	}
	return url
}

func (s *IngestionService) storeAudit(ctx context.Context, payload map[string]any, apiResponse domain.APIResponse) {
	if !s.cfg.AuditEnabled || s.audits == nil {
		return
	}
	clientID, _ := payload["client_ticket_id"].(string)
	title, _ := payload["title"].(string)
	audit := &domain.TicketAudit{
		Key:         AuditKey(clientID, title, s.now()),
		Payload:     payload,
		APIResponse: apiResponse,
	}
	if err := s.audits.Create(ctx, audit); err != nil {
		s.logger.Error("failed to write ticket audit", zap.String("key", audit.Key), zap.Error(err))
	}
}

// AuditKey prefers the client supplied id, else the first 40 characters of
// the title joined with the unix time.
func AuditKey(clientTicketID, title string, now time.Time) string {
	if clientTicketID != "" {
		return clientTicketID
	}
	if runes := []rune(title); len(runes) > auditTitleFragment {
		title = string(runes[:auditTitleFragment])
	}
	return fmt.Sprintf("%s-%d", title, now.Unix())
}
