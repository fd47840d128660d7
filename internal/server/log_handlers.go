package server

import (
	"time"

	"meetback/internal/models"
	"meetback/internal/repository"
	"meetback/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateLogEntry handles POST /api/logs. Clients report their own errors and
// diagnostics here for later admin review.
func (s *Server) CreateLogEntry(c *fiber.Ctx) error {
	var req struct {
		Level   string         `json:"level"`
		Message string         `json:"message"`
		Meta    models.LogMeta `json:"meta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.logService.Record(c.UserContext(), authedUserID(c), service.CreateLogInput{
		Level:   req.Level,
		Message: req.Message,
		Meta:    req.Meta,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Log entry recorded", fiber.Map{"log": entry})
}

// GetLogEntries handles GET /api/logs. Admin only. Supports level, userId
// and day (YYYY-MM-DD) filters.
func (s *Server) GetLogEntries(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	filter := repository.LogFilter{
		Level:  c.Query("level"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	if uid := c.QueryInt("userId", 0); uid > 0 {
		id := uint(uid)
		filter.UserID = &id
	}

	if day := c.Query("day"); day != "" {
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			return models.RespondWithError(c,
				models.NewValidationError("Invalid day, expected YYYY-MM-DD"))
		}
		filter.Day = parsed
	}

	entries, total, err := s.logService.List(c.UserContext(), filter)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Log entries", fiber.Map{
		"logs":  entries,
		"total": total,
	})
}
