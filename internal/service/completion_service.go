package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/voice2ticket/internal/domain"
	"github.com/spec-kit/voice2ticket/internal/observability"
	"github.com/spec-kit/voice2ticket/internal/repository"
	"github.com/spec-kit/voice2ticket/internal/storage"
	"github.com/spec-kit/voice2ticket/internal/transcript"
	apperrors "github.com/spec-kit/voice2ticket/pkg/util/errorutil"
)

const completedJobsSweep = "completed_jobs"

// CompletionService turns finished transcription jobs into local tickets.
type CompletionService struct {
	jobs       repository.TranscriptionJobRepository
	storage    ObjectStorage
	tickets    repository.TicketRepository
	classifier DepartmentClassifier
	notifier   *NotificationService
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// CompletionDependencies bundles collaborators for the completion sweep.
type CompletionDependencies struct {
	JobRepo    repository.TranscriptionJobRepository
	Storage    ObjectStorage
	TicketRepo repository.TicketRepository
	Classifier DepartmentClassifier
	Notifier   *NotificationService
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// JobFailure reports one job the sweep could not turn into a ticket.
type JobFailure struct {
	Job   string `json:"job"`
	Error string `json:"error"`
}

// CompletionResult summarizes one sweep.
type CompletionResult struct {
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Tickets   []string     `json:"tickets"`
	Errors    []JobFailure `json:"errors"`
}

// NewCompletionService constructs the service.
func NewCompletionService(deps CompletionDependencies) *CompletionService {
	now := deps.Now
	if now == nil {
		now = systemNow
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionService{
		jobs:       deps.JobRepo,
		storage:    deps.Storage,
		tickets:    deps.TicketRepo,
		classifier: deps.Classifier,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        now,
	}
}

// Sweep processes every completed job. A failing job is reported and left in
// place for the next sweep; only a failure to list jobs fails the sweep.
func (s *CompletionService) Sweep(ctx context.Context) (*CompletionResult, error) {
	summaries, err := s.jobs.List(ctx, domain.JobStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("list completed transcription jobs: %w", err)
	}

	result := &CompletionResult{Tickets: []string{}, Errors: []JobFailure{}}
	for _, summary := range summaries {
		ticket, err := s.processJob(ctx, summary.Name)
		if err != nil {
			s.logger.Error("failed to process transcription job", zap.String("job", summary.Name), zap.Error(err))
			result.Failed++
			result.Errors = append(result.Errors, JobFailure{Job: summary.Name, Error: err.Error()})
			continue
		}
		result.Processed++
		result.Tickets = append(result.Tickets, ticket.TicketID)
	}

	s.metrics.RecordSweep(completedJobsSweep, result.Processed, result.Failed)
	s.logger.Info("completed jobs sweep finished",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *CompletionService) processJob(ctx context.Context, name string) (*domain.Ticket, error) {
	job, err := s.jobs.Get(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("transcription job", map[string]any{"job": name})
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.TranscriptURI == "" {
		return nil, errors.New("job has no transcript location")
	}
	bucket, key, err := storage.ParseURI(job.TranscriptURI)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Get(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	parsed, err := transcript.Parse(data)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		TicketID:        domain.NewTicketID(s.now()),
		Title:           transcript.Title(parsed.Text),
		Status:          domain.TicketStatusOpen,
		Department:      s.classifier.Classify(parsed.Text),
		TranscribedText: parsed.Text,
		UserInfo:        job.Requester,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.TicketCreated(ctx, ticket); err != nil {
			s.logger.Warn("department notification failed",
				zap.String("ticket_id", ticket.TicketID), zap.Error(err))
		}
	}

	if err := s.jobs.Delete(ctx, name); err != nil {
		s.logger.Error("ticket created but job not retired",
			zap.String("job", name), zap.String("ticket_id", ticket.TicketID), zap.Error(err))
	}
	return ticket, nil
}
