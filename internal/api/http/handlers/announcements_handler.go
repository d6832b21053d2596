package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AnnouncementsHandler manages broadcast endpoints.
type AnnouncementsHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementsHandler constructs handler.
func NewAnnouncementsHandler(announcements *service.AnnouncementService) *AnnouncementsHandler {
	return &AnnouncementsHandler{announcements: announcements}
}

// CreateAnnouncement POST /announcements.
func (h *AnnouncementsHandler) CreateAnnouncement(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	announcement, err := h.announcements.CreateAnnouncement(c.UserContext(), principal, service.AnnouncementInput{
		Title:    req.Title,
		Body:     req.Body,
		Type:     req.Type,
		StartAt:  req.StartAt,
		EndAt:    req.EndAt,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAnnouncementResponse(announcement)})
}

// UpdateAnnouncement PUT /announcements/:id.
func (h *AnnouncementsHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	announcement, err := h.announcements.UpdateAnnouncement(c.UserContext(), principal, c.Params("id"), service.AnnouncementInput{
		Title:    req.Title,
		Body:     req.Body,
		Type:     req.Type,
		StartAt:  req.StartAt,
		EndAt:    req.EndAt,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnnouncementResponse(announcement)})
}

// DeleteAnnouncement DELETE /announcements/:id.
func (h *AnnouncementsHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.announcements.DeleteAnnouncement(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAnnouncements GET /announcements.
func (h *AnnouncementsHandler) ListAnnouncements(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)
	announcements, err := h.announcements.ListAll(c.UserContext(), principal, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnnouncementResponses(announcements)})
}

// ListActiveAnnouncements GET /announcements/active.
func (h *AnnouncementsHandler) ListActiveAnnouncements(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	announcements, err := h.announcements.ListActive(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnnouncementResponses(announcements)})
}
