package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/voice2ticket/internal/config"
	"github.com/spec-kit/voice2ticket/internal/domain"
	"github.com/spec-kit/voice2ticket/internal/notify"
)

// ClosedTicket is one entry of the auto-close summary.
type ClosedTicket struct {
	TicketID    string
	User        string
	Department  domain.Department
	LastUpdated time.Time
}

// NotificationService maps pipeline outcomes onto notification topics.
type NotificationService struct {
	publisher notify.Publisher
	logger    *zap.Logger
	cfg       config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(publisher notify.Publisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// TopicFor returns the department's own topic.
func (n *NotificationService) TopicFor(dept domain.Department) string {
	switch dept {
	case domain.DepartmentIT:
		return n.cfg.ITTopic
	case domain.DepartmentHR:
		return n.cfg.HRTopic
	case domain.DepartmentAdmin:
		return n.cfg.AdminTopic
	default:
		return ""
	}
}

// TicketCreated tells the owning department a ticket was filed.
func (n *NotificationService) TicketCreated(ctx context.Context, ticket *domain.Ticket) error {
	topic := n.TopicFor(ticket.Department)
	if topic == "" {
		return fmt.Errorf("%w: department %s", notify.ErrNoTopic, ticket.Department)
	}
	message := fmt.Sprintf("New ticket created in %s department", ticket.Department)
	n.logger.Info("TicketCreated",
		zap.String("ticket_id", ticket.TicketID),
		zap.String("department", string(ticket.Department)),
		zap.String("topic", topic))
	return n.publish(ctx, topic, "", message)
}

// AutoCloseSummary publishes one consolidated message for a closure sweep.
// An empty list publishes nothing.
func (n *NotificationService) AutoCloseSummary(ctx context.Context, closed []ClosedTicket) error {
	if len(closed) == 0 {
		return nil
	}
	topic := n.cfg.SummaryTopic
	if topic == "" {
		topic = n.cfg.AdminTopic
	}
	if topic == "" {
		return notify.ErrNoTopic
	}
	subject, message := FormatAutoCloseSummary(closed)
	n.logger.Info("AutoCloseSummary", zap.Int("closed", len(closed)), zap.String("topic", topic))
	return n.publish(ctx, topic, subject, message)
}

func (n *NotificationService) publish(ctx context.Context, topic, subject, message string) error {
	if n.publisher == nil {
		n.logger.Debug("no notification publisher configured", zap.String("topic", topic))
		return nil
	}
	return n.publisher.Publish(ctx, topic, subject, message)
}

// FormatAutoCloseSummary renders the subject and body of the summary message.
func FormatAutoCloseSummary(closed []ClosedTicket) (subject, message string) {
	subject = fmt.Sprintf("Auto-closed %d tickets", len(closed))

	var b strings.Builder
	fmt.Fprintf(&b, "Auto-closed %d inactive tickets:\n\n", len(closed))
	for i, t := range closed {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (%s) - Last updated: %s", t.TicketID, t.Department, t.LastUpdated.UTC().Format(time.RFC3339))
	}
	return subject, b.String()
}
