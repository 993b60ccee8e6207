package database

import (
	"context"
	"fmt"
	"time"

	"news-spectrum/models"

	"gorm.io/gorm"
)

// Store runs every read query the API needs against one database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle; used for health checks and seeding.
func (s *Store) DB() *gorm.DB { return s.db }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) RecentGlobalTopics(ctx context.Context, since time.Time, limit int) ([]models.GlobalTopic, error) {
	var topics []models.GlobalTopic
	err := s.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("list global topics: %w", err)
	}
	return topics, nil
}

func (s *Store) GlobalTopicByID(ctx context.Context, id string) (*models.GlobalTopic, error) {
	var topic models.GlobalTopic
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&topic).Error; err != nil {
		return nil, fmt.Errorf("get global topic %s: %w", id, notFound(err))
	}
	return &topic, nil
}

func (s *Store) LatestGlobalTopic(ctx context.Context) (*models.GlobalTopic, error) {
	var topic models.GlobalTopic
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("rank ASC").
		First(&topic).Error
	if err != nil {
		return nil, fmt.Errorf("get latest global topic: %w", err)
	}
	return &topic, nil
}

// ArticlesByGlobalTopics returns the linkage columns of articles attached to
// any of the given megatopics.
func (s *Store) ArticlesByGlobalTopics(ctx context.Context, ids []string) ([]models.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var articles []models.Article
	err := s.db.WithContext(ctx).
		Select("id", "global_topic_id", "local_topic_id", "country_code").
		Where("global_topic_id IN ?", ids).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list articles by global topics: %w", err)
	}
	return articles, nil
}

func (s *Store) ArticlesForGlobalTopic(ctx context.Context, id string, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := s.db.WithContext(ctx).
		Where("global_topic_id = ?", id).
		Order("published_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list articles of global topic %s: %w", id, err)
	}
	return articles, nil
}

func (s *Store) ArticlesByIDs(ctx context.Context, ids []string) ([]models.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var articles []models.Article
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("published_at DESC").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list articles by id: %w", err)
	}
	return articles, nil
}

func (s *Store) LocalTopicsByIDs(ctx context.Context, ids []string) ([]models.LocalTopic, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var topics []models.LocalTopic
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("list local topics by id: %w", err)
	}
	return topics, nil
}

// PublishedLocalTopics pages through a country's published topics by
// volume, returning the page and the total number of matching rows.
func (s *Store) PublishedLocalTopics(ctx context.Context, country string, offset, limit int) ([]models.LocalTopic, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&models.LocalTopic{}).
		Where("country_code = ?", country).
		Where("is_published = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count local topics: %w", err)
	}

	var topics []models.LocalTopic
	err := query.
		Order("article_count DESC").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list local topics: %w", err)
	}
	return topics, total, nil
}

func (s *Store) LocalTopicByID(ctx context.Context, id string) (*models.LocalTopic, error) {
	var topic models.LocalTopic
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&topic).Error; err != nil {
		return nil, fmt.Errorf("get local topic %s: %w", id, notFound(err))
	}
	return &topic, nil
}

func (s *Store) ArticlesByLocalTopic(ctx context.Context, id string, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := s.db.WithContext(ctx).
		Where("local_topic_id = ?", id).
		Order("published_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list articles of local topic %s: %w", id, err)
	}
	return articles, nil
}
