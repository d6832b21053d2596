package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CannedResponsesHandler manages reply template endpoints.
type CannedResponsesHandler struct {
	responses *service.CannedResponseService
}

// NewCannedResponsesHandler constructs handler.
func NewCannedResponsesHandler(responses *service.CannedResponseService) *CannedResponsesHandler {
	return &CannedResponsesHandler{responses: responses}
}

// CreateResponse POST /canned-responses.
func (h *CannedResponsesHandler) CreateResponse(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CannedResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	response, err := h.responses.CreateResponse(c.UserContext(), principal, service.CannedResponseInput{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCannedResponseResponse(response)})
}

// UpdateResponse PUT /canned-responses/:id.
func (h *CannedResponsesHandler) UpdateResponse(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CannedResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	response, err := h.responses.UpdateResponse(c.UserContext(), principal, c.Params("id"), service.CannedResponseInput{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCannedResponseResponse(response)})
}

// DeleteResponse DELETE /canned-responses/:id.
func (h *CannedResponsesHandler) DeleteResponse(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.responses.DeleteResponse(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetResponse GET /canned-responses/:id.
func (h *CannedResponsesHandler) GetResponse(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	response, err := h.responses.GetResponse(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCannedResponseResponse(response)})
}

// ListResponses GET /canned-responses.
func (h *CannedResponsesHandler) ListResponses(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)
	responses, err := h.responses.ListResponses(c.UserContext(), principal, c.Query("category"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCannedResponseResponses(responses)})
}
