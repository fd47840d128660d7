package server

import (
	"meetback/internal/models"
	"meetback/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateRating handles POST /api/ratings
func (s *Server) CreateRating(c *fiber.Ctx) error {
	var req struct {
		ToUserID uint                `json:"toUserId"`
		Aspects  models.AspectScores `json:"ratings"`
		Comment  string              `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.ToUserID == 0 {
		return models.RespondWithError(c, models.NewMissingDataError())
	}

	rating, err := s.ratingService.Create(c.UserContext(), authedUserID(c), service.CreateRatingInput{
		ToUserID: req.ToUserID,
		Aspects:  req.Aspects,
		Comment:  req.Comment,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Rating recorded", fiber.Map{"rating": rating})
}

// GetRatingAggregates handles GET /api/ratings/user/:userId
func (s *Server) GetRatingAggregates(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	averages, err := s.ratingService.Aggregates(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Rating aggregates", fiber.Map{"aspects": averages})
}

// GetRatingHistory handles GET /api/ratings/user/:userId/history
func (s *Server) GetRatingHistory(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	ratings, err := s.ratingService.Received(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Rating history", fiber.Map{"ratings": ratings})
}

// GetGivenRatings handles GET /api/ratings/given
func (s *Server) GetGivenRatings(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	ratings, err := s.ratingService.Given(c.UserContext(), authedUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Given ratings", fiber.Map{"ratings": ratings})
}

// DeleteRating handles DELETE /api/ratings/:id. Admin only.
func (s *Server) DeleteRating(c *fiber.Ctx) error {
	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ratingService.Delete(c.UserContext(), ratingID); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Rating deleted", nil)
}
