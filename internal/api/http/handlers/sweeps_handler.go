package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/voice2ticket/internal/service"
)

// SweepsHandler lets an external scheduler trigger the periodic sweeps.
type SweepsHandler struct {
	completion *service.CompletionService
	autoClose  *service.AutoCloseService
}

// NewSweepsHandler constructs handler.
func NewSweepsHandler(completion *service.CompletionService, autoClose *service.AutoCloseService) *SweepsHandler {
	return &SweepsHandler{completion: completion, autoClose: autoClose}
}

// CompletedJobs POST /sweeps/completed-jobs.
func (h *SweepsHandler) CompletedJobs(c *fiber.Ctx) error {
	result, err := h.completion.Sweep(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// InactiveTickets POST /sweeps/inactive-tickets.
func (h *SweepsHandler) InactiveTickets(c *fiber.Ctx) error {
	result, err := h.autoClose.CloseInactive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(result)
}
