package database

import (
	"context"
	"fmt"

	"news-spectrum/models"
)

// TopicQuery filters the daily topics listing. An empty Date lists the most
// recent topics up to Limit.
type TopicQuery struct {
	Date  string
	Limit int
}

// ArticleQuery pages through the articles of one daily topic.
type ArticleQuery struct {
	TopicID string
	Country string
	Stance  string
	Offset  int
	Limit   int
}

// ArticleMeta is the linkage needed to count a topic's articles.
type ArticleMeta struct {
	TopicID     string
	CountryCode string
}

func (s *Store) Topics(ctx context.Context, q TopicQuery) ([]models.LegacyTopic, error) {
	query := s.db.WithContext(ctx).Order("date DESC")
	if q.Date != "" {
		query = query.Where("date = ?", q.Date)
	} else {
		query = query.
			Order("country_count DESC").
			Order("created_at DESC").
			Limit(q.Limit)
	}

	var topics []models.LegacyTopic
	if err := query.Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (s *Store) ArticleMetaByTopics(ctx context.Context, topicIDs []string) ([]ArticleMeta, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}
	var meta []ArticleMeta
	err := s.db.WithContext(ctx).
		Model(&models.LegacyArticle{}).
		Select("topic_id", "country_code").
		Where("topic_id IN ?", topicIDs).
		Scan(&meta).Error
	if err != nil {
		return nil, fmt.Errorf("list article meta: %w", err)
	}
	return meta, nil
}

func (s *Store) TopicByID(ctx context.Context, id string) (*models.LegacyTopic, error) {
	var topic models.LegacyTopic
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&topic).Error; err != nil {
		return nil, fmt.Errorf("get topic %s: %w", id, notFound(err))
	}
	return &topic, nil
}

// TopArticles returns up to limit articles of a topic, highest stance score
// first.
func (s *Store) TopArticles(ctx context.Context, topicID string, limit int) ([]models.LegacyArticle, error) {
	var articles []models.LegacyArticle
	err := s.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("stance_score DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list top articles of %s: %w", topicID, err)
	}
	return articles, nil
}

// ArticlesByTopic returns one page of a topic's articles, newest first, and
// the number of articles matching the filters.
func (s *Store) ArticlesByTopic(ctx context.Context, q ArticleQuery) ([]models.LegacyArticle, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&models.LegacyArticle{}).
		Where("topic_id = ?", q.TopicID)
	if q.Country != "" {
		query = query.Where("country_code = ?", q.Country)
	}
	if q.Stance != "" {
		query = query.Where("stance = ?", q.Stance)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count articles of %s: %w", q.TopicID, err)
	}

	var articles []models.LegacyArticle
	err := query.
		Order("published_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list articles of %s: %w", q.TopicID, err)
	}
	return articles, total, nil
}

func (s *Store) CountryStats(ctx context.Context, topicID string) ([]models.TopicCountryStat, error) {
	var stats []models.TopicCountryStat
	if err := s.db.WithContext(ctx).Where("topic_id = ?", topicID).Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("list country stats of %s: %w", topicID, err)
	}
	return stats, nil
}

// LatestHistory returns the newest snapshot of a topic.
func (s *Store) LatestHistory(ctx context.Context, topicID string) (*models.TopicHistory, error) {
	var snap models.TopicHistory
	err := s.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("date DESC").
		First(&snap).Error
	if err != nil {
		return nil, fmt.Errorf("get latest history of %s: %w", topicID, notFound(err))
	}
	return &snap, nil
}

func (s *Store) HistoryByID(ctx context.Context, id int64) (*models.TopicHistory, error) {
	var snap models.TopicHistory
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&snap).Error; err != nil {
		return nil, fmt.Errorf("get history %d: %w", id, err)
	}
	return &snap, nil
}

func (s *Store) HistoryByDate(ctx context.Context, date string) ([]models.TopicHistory, error) {
	var snaps []models.TopicHistory
	if err := s.db.WithContext(ctx).Where("date = ?", date).Find(&snaps).Error; err != nil {
		return nil, fmt.Errorf("list history of %s: %w", date, err)
	}
	return snaps, nil
}
