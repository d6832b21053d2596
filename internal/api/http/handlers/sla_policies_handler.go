package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// SLAPoliciesHandler manages SLA budget endpoints.
type SLAPoliciesHandler struct {
	policies *service.SLAPolicyService
}

// NewSLAPoliciesHandler constructs handler.
func NewSLAPoliciesHandler(policies *service.SLAPolicyService) *SLAPoliciesHandler {
	return &SLAPoliciesHandler{policies: policies}
}

// ListPolicies GET /sla-policies.
func (h *SLAPoliciesHandler) ListPolicies(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	policies, err := h.policies.ListPolicies(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSLAPolicyResponses(policies)})
}

// UpsertPolicy PUT /sla-policies/:priority.
func (h *SLAPoliciesHandler) UpsertPolicy(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SLAPolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	priority := domain.TicketPriority(strings.ToUpper(c.Params("priority")))
	policy, err := h.policies.UpsertPolicy(c.UserContext(), principal, priority, service.SLAPolicyInput{
		ResponseMinutes:   req.ResponseMinutes,
		ResolutionMinutes: req.ResolutionMinutes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSLAPolicyResponse(policy)})
}
