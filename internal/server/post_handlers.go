package server

import (
	"meetback/internal/models"
	"meetback/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content   string   `json:"content"`
		Media     []string `json:"media"`
		ReplyToID *uint    `json:"replyToId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.UserContext(), authedUserID(c), service.CreatePostInput{
		Content:   req.Content,
		Media:     req.Media,
		ReplyToID: req.ReplyToID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Post created", fiber.Map{"post": post})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Post", fiber.Map{"post": post})
}

// GetUserPosts handles GET /api/posts/user/:userId
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.ByUser(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User posts", fiber.Map{"posts": posts})
}

// GetFeed handles GET /api/posts/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.Feed(c.UserContext(), authedUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Feed", fiber.Map{"posts": posts})
}

// GetReplies handles GET /api/posts/:id/replies
func (s *Server) GetReplies(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	replies, err := s.postService.Replies(c.UserContext(), postID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Replies", fiber.Map{"posts": replies})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.postService.Delete(c.UserContext(), postID, actor); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Post deleted", nil)
}

// GetAllPosts handles GET /api/admin/posts. Includes soft-deleted posts.
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	posts, total, err := s.postService.ListAll(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "All posts", fiber.Map{
		"posts": posts,
		"total": total,
	})
}

// GetAnyPost handles GET /api/admin/posts/:id. Returns the post even when it
// has been soft-deleted.
func (s *Server) GetAnyPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetAny(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Post", fiber.Map{"post": post})
}
