package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/voice2ticket/internal/domain"
)

// TicketAuditRepository stores write-once delivery traces.
type TicketAuditRepository interface {
	Create(ctx context.Context, audit *domain.TicketAudit) error
}

type ticketAuditRepository struct {
	pool *pgxpool.Pool
}

// NewTicketAuditRepository builds repository.
func NewTicketAuditRepository(pool *pgxpool.Pool) TicketAuditRepository {
	return &ticketAuditRepository{pool: pool}
}

// Create inserts the record. A duplicate key fails; records are never overwritten.
func (r *ticketAuditRepository) Create(ctx context.Context, audit *domain.TicketAudit) error {
	const query = `
        INSERT INTO ticket_audit (audit_key, payload, api_status_code, api_body)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		audit.Key,
		audit.Payload,
		audit.APIResponse.StatusCode,
		audit.APIResponse.Body,
	).Scan(&audit.CreatedAt)
}
