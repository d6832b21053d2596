package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListAuditLogs GET /audit-logs.
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(principal, domain.AdminOnly...); err != nil {
		return err
	}
	limit, offset := parsePagination(c)
	entries, err := h.audit.List(c.UserContext(), repository.AuditLogFilter{
		UserID:     queryString(c, "user_id"),
		EntityType: queryString(c, "entity_type"),
		EntityID:   queryString(c, "entity_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAuditLogResponses(entries)})
}
