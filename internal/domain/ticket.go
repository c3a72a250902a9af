package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusClosed     TicketStatus = "Closed"
)

// ActiveStatuses are the states eligible for automatic closure.
var ActiveStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress}

// StalenessWindow is how long a ticket may stay untouched before it is closed.
const StalenessWindow = 7 * 24 * time.Hour

var ErrInvalidTransition = errors.New("invalid status transition")

// UserInfo describes the requester.
type UserInfo struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// Ticket is the durable unit of work.
type Ticket struct {
	TicketID        string
	Title           string
	Status          TicketStatus
	Department      Department
	TranscribedText string
	Resolution      string
	UserInfo        UserInfo
	CreatedAt       time.Time
	LastUpdated     time.Time
}

// NewTicketID returns an id of the form TKT-<unix>-<8 hex>.
func NewTicketID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("TKT-%d-%s", now.Unix(), suffix)
}

var forwardTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusClosed},
	TicketStatusClosed:     {},
}

// CanTransition reports whether current may move to next. Only forward moves are allowed.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range forwardTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ValidateClosure checks the closed-implies-resolution invariant.
func ValidateClosure(status TicketStatus, resolution string) error {
	if status == TicketStatusClosed && strings.TrimSpace(resolution) == "" {
		return errors.New("closed ticket requires a resolution")
	}
	return nil
}

// InactivityResolution is the resolution text written by the inactivity closer.
func InactivityResolution(lastUpdated time.Time) string {
	return fmt.Sprintf("Automatically closed due to inactivity (last updated %s)", lastUpdated.UTC().Format(time.RFC3339))
}
