package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/voice2ticket/internal/domain"
)

func TestListTicketsMapsFilters(t *testing.T) {
	now := time.Now()
	tickets := newFakeTickets(fixedClock(now),
		domain.Ticket{TicketID: "a", Department: domain.DepartmentIT, Status: domain.TicketStatusOpen, LastUpdated: now},
		domain.Ticket{TicketID: "b", Department: domain.DepartmentHR, Status: domain.TicketStatusOpen, LastUpdated: now},
		domain.Ticket{TicketID: "c", Department: domain.DepartmentIT, Status: domain.TicketStatusClosed, LastUpdated: now},
	)
	svc := NewTicketService(tickets)

	dept := domain.DepartmentIT
	status := domain.TicketStatusOpen
	got, err := svc.ListTickets(context.Background(), TicketQuery{Department: &dept, Status: &status})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(got) != 1 || got[0].TicketID != "a" {
		t.Errorf("got = %+v", got)
	}

	all, err := svc.ListTickets(context.Background(), TicketQuery{})
	if err != nil || len(all) != 3 {
		t.Errorf("all = %d, %v", len(all), err)
	}

	none, err := svc.ListTickets(context.Background(), TicketQuery{Department: ptr(domain.Department("Legal"))})
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("none = %v, %v", none, err)
	}
}

func ptr[T any](v T) *T { return &v }
