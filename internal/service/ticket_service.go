package service

import (
	"context"

	"github.com/spec-kit/voice2ticket/internal/domain"
	"github.com/spec-kit/voice2ticket/internal/repository"
)

// TicketService serves read-only ticket listings.
type TicketService struct {
	tickets repository.TicketRepository
}

// TicketQuery describes listing filters. Nil fields match everything.
type TicketQuery struct {
	Department *domain.Department
	Status     *domain.TicketStatus
	Limit      int
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository) *TicketService {
	return &TicketService{tickets: tickets}
}

// ListTickets returns tickets matching the query, least recently updated first.
func (s *TicketService) ListTickets(ctx context.Context, query TicketQuery) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Department: query.Department,
		Limit:      query.Limit,
	}
	if query.Status != nil {
		filter.Statuses = []domain.TicketStatus{*query.Status}
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}
