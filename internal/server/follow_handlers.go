package server

import (
	"meetback/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/follow/:userId
func (s *Server) Follow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(c.UserContext(), authedUserID(c), targetID); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Now following", nil)
}

// Unfollow handles DELETE /api/follow/:userId
func (s *Server) Unfollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), authedUserID(c), targetID); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Unfollowed", nil)
}

// GetFollowStatus handles GET /api/follow/status/:userId
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.followService.Status(c.UserContext(), authedUserID(c), targetID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Follow status", status)
}

// GetMyFollowing handles GET /api/follow/following
func (s *Server) GetMyFollowing(c *fiber.Ctx) error {
	return s.respondFollowing(c, authedUserID(c))
}

// GetMyFollowers handles GET /api/follow/followers
func (s *Server) GetMyFollowers(c *fiber.Ctx) error {
	return s.respondFollowers(c, authedUserID(c))
}

// GetFollowing handles GET /api/follow/following/:userId
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	return s.respondFollowing(c, userID)
}

// GetFollowers handles GET /api/follow/followers/:userId
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	return s.respondFollowers(c, userID)
}

func (s *Server) respondFollowing(c *fiber.Ctx, userID uint) error {
	p := parsePagination(c, 20)
	users, err := s.followService.Following(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Following", fiber.Map{"users": users})
}

func (s *Server) respondFollowers(c *fiber.Ctx, userID uint) error {
	p := parsePagination(c, 20)
	users, err := s.followService.Followers(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Followers", fiber.Map{"users": users})
}
