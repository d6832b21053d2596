package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// RatingsHandler manages ticket rating endpoints.
type RatingsHandler struct {
	ratings *service.RatingService
}

// NewRatingsHandler constructs handler.
func NewRatingsHandler(ratings *service.RatingService) *RatingsHandler {
	return &RatingsHandler{ratings: ratings}
}

// SubmitRating POST /tickets/:id/rating.
func (h *RatingsHandler) SubmitRating(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SubmitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rating, err := h.ratings.SubmitRating(c.UserContext(), principal, c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewRatingResponse(rating)})
}

// GetTicketRating GET /tickets/:id/rating.
func (h *RatingsHandler) GetTicketRating(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	rating, err := h.ratings.GetTicketRating(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRatingResponse(rating)})
}
