package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/voice2ticket/internal/domain"
)

// TicketFilter narrows a ticket scan. Zero values match everything.
type TicketFilter struct {
	Department    *domain.Department
	Statuses      []domain.TicketStatus
	UpdatedBefore *time.Time
	Limit         int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// Transition moves a ticket to status `to` only while its current status
	// is one of `from`. It returns pgx.ErrNoRows when no row matched.
	Transition(ctx context.Context, ticketID string, from []domain.TicketStatus, to domain.TicketStatus, resolution string) (*domain.Ticket, error)
}

// querier is the subset of *pgxpool.Pool the ticket queries use.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ticketRepository struct {
	pool querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `ticket_id, title, status, department, transcribed_text, resolution,
               requester_name, requester_contact, created_at, last_updated`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_id, title, status, department, transcribed_text, resolution, requester_name, requester_contact)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, last_updated`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketID,
		ticket.Title,
		ticket.Status,
		ticket.Department,
		ticket.TranscribedText,
		ticket.Resolution,
		ticket.UserInfo.Name,
		ticket.UserInfo.Contact,
	).Scan(&ticket.CreatedAt, &ticket.LastUpdated)
}

func (r *ticketRepository) Transition(ctx context.Context, ticketID string, from []domain.TicketStatus, to domain.TicketStatus, resolution string) (*domain.Ticket, error) {
	if err := domain.ValidateClosure(to, resolution); err != nil {
		return nil, err
	}
	allowed := make([]string, 0, len(from))
	for _, status := range from {
		if !domain.CanTransition(status, to) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, status, to)
		}
		allowed = append(allowed, string(status))
	}
	query := `
        UPDATE tickets SET status=$1, resolution=$2, last_updated=NOW()
        WHERE ticket_id=$3 AND status = ANY($4)
        RETURNING ` + ticketColumns
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, to, resolution, ticketID, allowed))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.UpdatedBefore != nil {
		args = append(args, *filter.UpdatedBefore)
		clauses = append(clauses, fmt.Sprintf("last_updated < $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY last_updated ASC`, base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.TicketID,
		&ticket.Title,
		&ticket.Status,
		&ticket.Department,
		&ticket.TranscribedText,
		&ticket.Resolution,
		&ticket.UserInfo.Name,
		&ticket.UserInfo.Contact,
		&ticket.CreatedAt,
		&ticket.LastUpdated,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
