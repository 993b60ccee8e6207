package services

import (
	"context"
	"errors"
	"time"

	"news-spectrum/config"
	"news-spectrum/history"
	"news-spectrum/models"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// TimelineService serves topic history chains and daily evolution
// summaries.
type TimelineService struct {
	store    HistoryStore
	log      *log.Logger
	maxDepth int
	now      func() time.Time
}

// NewTimelineService creates the service. A nil store makes every call fail
// with ErrNotConfigured.
func NewTimelineService(store HistoryStore, cfg config.Config, logger *log.Logger) *TimelineService {
	depth := cfg.TimelineMaxDepth
	if depth < 1 {
		depth = history.DefaultMaxDepth
	}
	return &TimelineService{store: store, log: logger, maxDepth: depth, now: time.Now}
}

// Timeline walks back from the newest snapshot of topicID. A topic without
// history, or whose history cannot be read, yields an empty timeline.
func (s *TimelineService) Timeline(ctx context.Context, topicID string) (history.Timeline, error) {
	if s.store == nil {
		return history.Timeline{}, ErrNotConfigured
	}
	latest, err := s.store.LatestHistory(ctx, topicID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("topic history unavailable", "topic_id", topicID, "err", err)
		}
		return history.Empty(), nil
	}
	return history.BuildTimeline(ctx, *latest, s.fetch, s.maxDepth), nil
}

func (s *TimelineService) fetch(ctx context.Context, id int64) (*models.TopicHistory, error) {
	snap, err := s.store.HistoryByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.log.Warn("history parent unavailable", "id", id, "err", err)
	}
	return snap, err
}

// Evolution summarizes the snapshots recorded on date, today (UTC) when
// empty.
func (s *TimelineService) Evolution(ctx context.Context, date string) (history.Evolution, error) {
	if s.store == nil {
		return history.Evolution{}, ErrNotConfigured
	}
	if date == "" {
		date = s.now().UTC().Format(time.DateOnly)
	}
	records, err := s.store.HistoryByDate(ctx, date)
	if err != nil {
		return history.Evolution{}, err
	}
	return history.Summarize(date, records), nil
}
