package services

import (
	"context"
	"time"

	"news-spectrum/database"
	"news-spectrum/models"
)

// GlobalStore reads megatopics and the articles and local topics linked to
// them.
type GlobalStore interface {
	RecentGlobalTopics(ctx context.Context, since time.Time, limit int) ([]models.GlobalTopic, error)
	GlobalTopicByID(ctx context.Context, id string) (*models.GlobalTopic, error)
	LatestGlobalTopic(ctx context.Context) (*models.GlobalTopic, error)
	ArticlesByGlobalTopics(ctx context.Context, ids []string) ([]models.Article, error)
	ArticlesForGlobalTopic(ctx context.Context, id string, limit int) ([]models.Article, error)
	ArticlesByIDs(ctx context.Context, ids []string) ([]models.Article, error)
	LocalTopicsByIDs(ctx context.Context, ids []string) ([]models.LocalTopic, error)
}

// LocalStore reads per-country topics.
type LocalStore interface {
	PublishedLocalTopics(ctx context.Context, country string, offset, limit int) ([]models.LocalTopic, int64, error)
	LocalTopicByID(ctx context.Context, id string) (*models.LocalTopic, error)
	ArticlesByLocalTopic(ctx context.Context, id string, limit int) ([]models.Article, error)
}

// TopicStore reads the daily topics tables.
type TopicStore interface {
	Topics(ctx context.Context, q database.TopicQuery) ([]models.LegacyTopic, error)
	ArticleMetaByTopics(ctx context.Context, topicIDs []string) ([]database.ArticleMeta, error)
	TopicByID(ctx context.Context, id string) (*models.LegacyTopic, error)
	TopArticles(ctx context.Context, topicID string, limit int) ([]models.LegacyArticle, error)
	ArticlesByTopic(ctx context.Context, q database.ArticleQuery) ([]models.LegacyArticle, int64, error)
	CountryStats(ctx context.Context, topicID string) ([]models.TopicCountryStat, error)
}

// HistoryStore reads topic history snapshots.
type HistoryStore interface {
	LatestHistory(ctx context.Context, topicID string) (*models.TopicHistory, error)
	HistoryByID(ctx context.Context, id int64) (*models.TopicHistory, error)
	HistoryByDate(ctx context.Context, date string) ([]models.TopicHistory, error)
}

var (
	_ GlobalStore  = (*database.Store)(nil)
	_ LocalStore   = (*database.Store)(nil)
	_ TopicStore   = (*database.Store)(nil)
	_ HistoryStore = (*database.Store)(nil)
)
