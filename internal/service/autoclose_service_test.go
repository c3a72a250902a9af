package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/voice2ticket/internal/domain"
	"github.com/spec-kit/voice2ticket/internal/observability"
)

var closerNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func ticketAged(id string, status domain.TicketStatus, age time.Duration) domain.Ticket {
	return domain.Ticket{
		TicketID:    id,
		Status:      status,
		Department:  domain.DepartmentHR,
		UserInfo:    domain.UserInfo{Name: "Riley"},
		LastUpdated: closerNow.Add(-age),
	}
}

func newCloser(tickets *fakeTickets, publisher *recordingPublisher) *AutoCloseService {
	return NewAutoCloseService(AutoCloseDependencies{
		TicketRepo: tickets,
		Notifier:   NewNotificationService(publisher, nil, topics),
		Metrics:    observability.NewMetrics(),
		Now:        fixedClock(closerNow),
	})
}

func TestCloseInactiveOnlyStaleTickets(t *testing.T) {
	day := 24 * time.Hour
	tickets := newFakeTickets(fixedClock(closerNow),
		ticketAged("TKT-old", domain.TicketStatusOpen, 10*day),
		ticketAged("TKT-new", domain.TicketStatusOpen, 3*day),
	)
	publisher := &recordingPublisher{}

	result, err := newCloser(tickets, publisher).CloseInactive(context.Background())
	if err != nil {
		t.Fatalf("CloseInactive: %v", err)
	}
	if result.ClosedTickets != 1 || result.Message != "Auto-close completed successfully" {
		t.Fatalf("result = %+v", result)
	}

	old := tickets.tickets["TKT-old"]
	if old.Status != domain.TicketStatusClosed {
		t.Errorf("old status = %s", old.Status)
	}
	wantResolution := "Automatically closed due to inactivity (last updated " + closerNow.Add(-10*day).Format(time.RFC3339) + ")"
	if old.Resolution != wantResolution {
		t.Errorf("resolution = %q", old.Resolution)
	}
	if !old.LastUpdated.Equal(closerNow) {
		t.Errorf("last updated not refreshed: %v", old.LastUpdated)
	}
	if tickets.tickets["TKT-new"].Status != domain.TicketStatusOpen {
		t.Error("fresh ticket closed")
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("notifications = %d, want 1", len(publisher.messages))
	}
	msg := publisher.messages[0]
	if msg.topic != "summary" || msg.subject != "Auto-closed 1 tickets" {
		t.Errorf("notification = %+v", msg)
	}
	wantBody := "Auto-closed 1 inactive tickets:\n\n- TKT-old (HR) - Last updated: " + closerNow.Add(-10*day).Format(time.RFC3339)
	if msg.message != wantBody {
		t.Errorf("body = %q", msg.message)
	}
}

func TestCloseInactiveIsIdempotent(t *testing.T) {
	day := 24 * time.Hour
	tickets := newFakeTickets(fixedClock(closerNow),
		ticketAged("TKT-1", domain.TicketStatusOpen, 8*day),
		ticketAged("TKT-2", domain.TicketStatusInProgress, 30*day),
	)
	publisher := &recordingPublisher{}
	closer := newCloser(tickets, publisher)

	first, err := closer.CloseInactive(context.Background())
	if err != nil || first.ClosedTickets != 2 {
		t.Fatalf("first run = %+v, %v", first, err)
	}
	second, err := closer.CloseInactive(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.ClosedTickets != 0 {
		t.Errorf("second run closed %d", second.ClosedTickets)
	}
	if len(publisher.messages) != 1 {
		t.Errorf("notifications = %d, want 1", len(publisher.messages))
	}
}

func TestCloseInactiveNothingStale(t *testing.T) {
	tickets := newFakeTickets(fixedClock(closerNow),
		ticketAged("TKT-1", domain.TicketStatusOpen, time.Hour),
		ticketAged("TKT-2", domain.TicketStatusClosed, 90*24*time.Hour),
	)
	publisher := &recordingPublisher{}

	result, err := newCloser(tickets, publisher).CloseInactive(context.Background())
	if err != nil {
		t.Fatalf("CloseInactive: %v", err)
	}
	if result.ClosedTickets != 0 || len(publisher.messages) != 0 {
		t.Errorf("closed = %d notifications = %d", result.ClosedTickets, len(publisher.messages))
	}
	if !tickets.lastFilter.UpdatedBefore.Equal(closerNow.Add(-7 * 24 * time.Hour)) {
		t.Errorf("cutoff = %v", tickets.lastFilter.UpdatedBefore)
	}
}

func TestCloseInactiveIsolatesTicketFailures(t *testing.T) {
	day := 24 * time.Hour
	tickets := newFakeTickets(fixedClock(closerNow),
		ticketAged("TKT-bad", domain.TicketStatusOpen, 20*day),
		ticketAged("TKT-good", domain.TicketStatusOpen, 9*day),
	)
	tickets.transitionErr["TKT-bad"] = errors.New("throttled")
	publisher := &recordingPublisher{}

	result, err := newCloser(tickets, publisher).CloseInactive(context.Background())
	if err != nil {
		t.Fatalf("CloseInactive: %v", err)
	}
	if result.ClosedTickets != 1 {
		t.Fatalf("closed = %d", result.ClosedTickets)
	}
	if strings.Contains(publisher.messages[0].message, "TKT-bad") {
		t.Error("failed ticket listed in summary")
	}
	if tickets.tickets["TKT-bad"].Status != domain.TicketStatusOpen {
		t.Error("failed ticket mutated")
	}
}

func TestCloseInactiveSummaryFailureDoesNotFail(t *testing.T) {
	tickets := newFakeTickets(fixedClock(closerNow), ticketAged("TKT-1", domain.TicketStatusOpen, 8*24*time.Hour))
	publisher := &recordingPublisher{err: errors.New("publish failed")}

	result, err := newCloser(tickets, publisher).CloseInactive(context.Background())
	if err != nil || result.ClosedTickets != 1 {
		t.Fatalf("result = %+v, err = %v", result, err)
	}
}

func TestCloseInactiveFailsWhenCandidatesUnavailable(t *testing.T) {
	tickets := newFakeTickets(fixedClock(closerNow))
	tickets.listErr = errors.New("scan failed")
	if _, err := newCloser(tickets, &recordingPublisher{}).CloseInactive(context.Background()); !errors.Is(err, tickets.listErr) {
		t.Fatalf("err = %v", err)
	}
}
