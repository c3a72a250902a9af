package dto

import (
	"time"

	"github.com/spec-kit/voice2ticket/internal/domain"
)

// TicketResponse is the listing view of a ticket.
type TicketResponse struct {
	TicketID        string              `json:"ticketId"`
	Title           string              `json:"title"`
	Status          domain.TicketStatus `json:"status"`
	Department      domain.Department   `json:"department"`
	TranscribedText string              `json:"transcribedText"`
	Resolution      string              `json:"resolution,omitempty"`
	UserInfo        domain.UserInfo     `json:"userInfo"`
	CreatedAt       time.Time           `json:"createdAt"`
	LastUpdated     time.Time           `json:"lastUpdated"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:        t.TicketID,
		Title:           t.Title,
		Status:          t.Status,
		Department:      t.Department,
		TranscribedText: t.TranscribedText,
		Resolution:      t.Resolution,
		UserInfo:        t.UserInfo,
		CreatedAt:       t.CreatedAt,
		LastUpdated:     t.LastUpdated,
	}
}

// DispatchResponse acknowledges a submitted transcription job.
type DispatchResponse struct {
	Message string `json:"message"`
	JobName string `json:"jobName"`
}
