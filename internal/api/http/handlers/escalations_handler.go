package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// EscalationsHandler manages SLA escalation endpoints.
type EscalationsHandler struct {
	escalations *service.EscalationService
}

// NewEscalationsHandler constructs handler.
func NewEscalationsHandler(escalations *service.EscalationService) *EscalationsHandler {
	return &EscalationsHandler{escalations: escalations}
}

// ListUnacknowledged GET /escalations.
func (h *EscalationsHandler) ListUnacknowledged(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)
	escalations, err := h.escalations.ListUnacknowledged(c.UserContext(), principal, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEscalationResponses(escalations)})
}

// Acknowledge POST /escalations/:id/acknowledge.
func (h *EscalationsHandler) Acknowledge(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	escalation, err := h.escalations.Acknowledge(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEscalationResponse(escalation)})
}
