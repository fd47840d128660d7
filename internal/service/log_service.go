package service

import (
	"context"

	"meetback/internal/models"
	"meetback/internal/repository"
)

// LogService persists client-reported log entries for admin review.
type LogService struct {
	logRepo repository.LogRepository
}

// CreateLogInput is the payload for recording a log entry.
type CreateLogInput struct {
	Level   string
	Message string
	Meta    models.LogMeta
}

// NewLogService creates a new log service.
func NewLogService(logRepo repository.LogRepository) *LogService {
	return &LogService{logRepo: logRepo}
}

// Record stores a log entry attributed to the given user.
func (s *LogService) Record(ctx context.Context, userID uint, in CreateLogInput) (*models.LogEntry, error) {
	if in.Message == "" {
		return nil, models.NewMissingDataError()
	}
	level := in.Level
	if level == "" {
		level = models.LogLevelInfo
	}
	if !models.IsValidLogLevel(level) {
		return nil, models.NewValidationError("Invalid log level")
	}

	entry := &models.LogEntry{
		UserID:  &userID,
		Level:   level,
		Message: in.Message,
		Meta:    in.Meta,
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns log entries matching the filter, newest first, with the total
// match count for pagination.
func (s *LogService) List(ctx context.Context, filter repository.LogFilter) ([]models.LogEntry, int64, error) {
	if filter.Level != "" && !models.IsValidLogLevel(filter.Level) {
		return nil, 0, models.NewValidationError("Invalid log level")
	}
	return s.logRepo.List(ctx, filter)
}
