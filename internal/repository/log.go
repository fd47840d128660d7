package repository

import (
	"context"
	"time"

	"meetback/internal/models"

	"gorm.io/gorm"
)

// LogFilter narrows event log queries.
type LogFilter struct {
	Level  string
	UserID *uint
	// Day limits results to a single calendar day (UTC) when non-zero.
	Day    time.Time
	Limit  int
	Offset int
}

// LogRepository defines the interface for the persisted event log.
type LogRepository interface {
	Create(ctx context.Context, entry *models.LogEntry) error
	List(ctx context.Context, filter LogFilter) ([]models.LogEntry, int64, error)
}

type logRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new log repository.
func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *logRepository) List(ctx context.Context, filter LogFilter) ([]models.LogEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.LogEntry{})
	if filter.Level != "" {
		q = q.Where("level = ?", filter.Level)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if !filter.Day.IsZero() {
		start := filter.Day.UTC().Truncate(24 * time.Hour)
		q = q.Where("created_at >= ? AND created_at < ?", start, start.Add(24*time.Hour))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var entries []models.LogEntry
	if err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&entries).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return entries, total, nil
}
