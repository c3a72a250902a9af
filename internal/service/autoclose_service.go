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
)

const (
	inactiveTicketsSweep = "inactive_tickets"
	autoCloseMessage     = "Auto-close completed successfully"
)

// AutoCloseService closes tickets nobody touched within the staleness window.
type AutoCloseService struct {
	tickets  repository.TicketRepository
	notifier *NotificationService
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// AutoCloseDependencies bundles collaborators for the inactivity closer.
type AutoCloseDependencies struct {
	TicketRepo repository.TicketRepository
	Notifier   *NotificationService
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// AutoCloseResult summarizes one closure sweep.
type AutoCloseResult struct {
	ClosedTickets int    `json:"closed_tickets"`
	Message       string `json:"message"`
}

// NewAutoCloseService constructs the service.
func NewAutoCloseService(deps AutoCloseDependencies) *AutoCloseService {
	now := deps.Now
	if now == nil {
		now = systemNow
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoCloseService{
		tickets:  deps.TicketRepo,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   logger,
		now:      now,
	}
}

// CloseInactive closes every Open or In Progress ticket last updated before
// now minus the staleness window, then publishes one summary.
func (s *AutoCloseService) CloseInactive(ctx context.Context) (*AutoCloseResult, error) {
	cutoff := s.now().Add(-domain.StalenessWindow)
	candidates, err := s.tickets.List(ctx, repository.TicketFilter{
		Statuses:      domain.ActiveStatuses,
		UpdatedBefore: &cutoff,
	})
	if err != nil {
		return nil, fmt.Errorf("list inactive tickets: %w", err)
	}

	closed := make([]ClosedTicket, 0, len(candidates))
	for _, ticket := range candidates {
		resolution := domain.InactivityResolution(ticket.LastUpdated)
		_, err := s.tickets.Transition(ctx, ticket.TicketID, domain.ActiveStatuses, domain.TicketStatusClosed, resolution)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				s.logger.Warn("ticket no longer eligible for closure", zap.String("ticket_id", ticket.TicketID))
			} else {
				s.logger.Error("error closing ticket", zap.String("ticket_id", ticket.TicketID), zap.Error(err))
			}
			continue
		}
		closed = append(closed, ClosedTicket{
			TicketID:    ticket.TicketID,
			User:        ticket.UserInfo.Name,
			Department:  ticket.Department,
			LastUpdated: ticket.LastUpdated,
		})
	}

	if len(closed) > 0 && s.notifier != nil {
		if err := s.notifier.AutoCloseSummary(ctx, closed); err != nil {
			s.logger.Error("auto-close summary not delivered", zap.Int("closed", len(closed)), zap.Error(err))
		}
	}

	s.metrics.RecordSweep(inactiveTicketsSweep, len(closed), len(candidates)-len(closed))
	s.logger.Info("inactive tickets sweep finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("closed", len(closed)))
	return &AutoCloseResult{ClosedTickets: len(closed), Message: autoCloseMessage}, nil
}
