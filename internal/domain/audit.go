package domain

import "time"

// APIResponse is what the external ticket API returned for a delivery.
type APIResponse struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

// TicketAudit is a write-once trace of one outbound ticket delivery.
type TicketAudit struct {
	Key         string
	CreatedAt   time.Time
	Payload     map[string]any
	APIResponse APIResponse
}
