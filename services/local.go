package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"news-spectrum/cache"
	"news-spectrum/config"
	"news-spectrum/fallback"
	"news-spectrum/models"
	"news-spectrum/ranking"
	"news-spectrum/stance"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

const (
	DefaultCountry    = "KR"
	defaultTrendLimit = 20
	maxTrendLimit     = 50
	detailArticles    = 50
	defaultLevel      = 3
)

// TrendsQuery selects one page of a country's trends. Zero values take the
// defaults.
type TrendsQuery struct {
	Country string
	Page    int
	Limit   int
}

func (q TrendsQuery) normalize() TrendsQuery {
	q.Country = strings.ToUpper(strings.TrimSpace(q.Country))
	if q.Country == "" {
		q.Country = DefaultCountry
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultTrendLimit
	}
	q.Limit = min(q.Limit, maxTrendLimit)
	return q
}

func (q TrendsQuery) key() string {
	return fmt.Sprintf("local:trends:%s:%d:%d", q.Country, q.Page, q.Limit)
}

// LocalService builds the per-country trends listing and topic details.
type LocalService struct {
	store      LocalStore
	memo       memo
	log        *log.Logger
	minVisible float64
}

// NewLocalService creates the service. A nil store serves sample data.
func NewLocalService(store LocalStore, cfg config.Config, c cache.Cache, logger *log.Logger) *LocalService {
	return &LocalService{
		store:      store,
		memo:       newMemo(c, cfg.CacheTTL(), logger),
		log:        logger,
		minVisible: cfg.MinVisiblePercent,
	}
}

// Trends returns one page of published topics of a country, largest first.
func (s *LocalService) Trends(ctx context.Context, q TrendsQuery) (Result[models.LocalTrendPage], error) {
	q = q.normalize()
	if s.store == nil {
		return s.fallbackTrends(ErrNotConfigured.Error())
	}
	page, err := remember(ctx, s.memo, q.key(), func(ctx context.Context) (models.LocalTrendPage, error) {
		return s.liveTrends(ctx, q)
	})
	if err != nil {
		s.log.Error("local trends query failed", "country", q.Country, "err", err)
		return s.fallbackTrends(err.Error())
	}
	return live(page), nil
}

// WarmTrends rebuilds the cached trends page described by q.
func (s *LocalService) WarmTrends(ctx context.Context, q TrendsQuery) error {
	if s.store == nil {
		return ErrNotConfigured
	}
	q = q.normalize()
	_, err := refresh(ctx, s.memo, q.key(), func(ctx context.Context) (models.LocalTrendPage, error) {
		return s.liveTrends(ctx, q)
	})
	return err
}

func (s *LocalService) fallbackTrends(reason string) (Result[models.LocalTrendPage], error) {
	page, err := fallback.LocalTrends()
	if err != nil {
		return Result[models.LocalTrendPage]{}, err
	}
	for i := range page.Topics {
		page.Topics[i].Distribution = distributionOf(s.minVisible, page.Topics[i].Stances)
	}
	return fellBack(page, reason), nil
}

func (s *LocalService) liveTrends(ctx context.Context, q TrendsQuery) (models.LocalTrendPage, error) {
	from := (q.Page - 1) * q.Limit
	topics, total, err := s.store.PublishedLocalTopics(ctx, q.Country, from, q.Limit)
	if err != nil {
		return models.LocalTrendPage{}, err
	}

	existing := make([]*int, len(topics))
	for i, t := range topics {
		if t.DisplayLevel != nil && *t.DisplayLevel != 0 {
			existing[i] = t.DisplayLevel
		}
	}
	levels := ranking.DisplayLevels(existing)

	trends := make([]models.LocalTrend, 0, len(topics))
	for i, t := range topics {
		entries := t.Stances.Entries()
		trends = append(trends, models.LocalTrend{
			TopicID:      t.ID,
			Title:        firstNonEmpty(t.Headline, t.TopicName),
			Keyword:      keywordOf(t),
			Keywords:     orEmpty(t.Keywords),
			ArticleCount: t.ArticleCount,
			DisplayLevel: levels[i],
			MediaType:    mediaType(t.ThumbnailURL),
			MediaURL:     optional(t.ThumbnailURL),
			Stances:      entries,
			Distribution: distributionOf(s.minVisible, entries),
			Category:     optional(t.Category),
			IsGlobal:     isGlobal(t, q.Country),
			Summary:      t.Summary,
			CreatedAt:    t.CreatedAt,
		})
	}

	hasNext := len(topics) == q.Limit
	if total > 0 {
		hasNext = int64(from+q.Limit) < total
	}
	return models.LocalTrendPage{
		CountryCode: q.Country,
		Topics:      trends,
		Page:        q.Page,
		TotalCount:  int(total),
		Limit:       q.Limit,
		HasNextPage: hasNext,
	}, nil
}

// Topic returns one local topic with the stance of each of its articles.
func (s *LocalService) Topic(ctx context.Context, id string) (Result[models.LocalTopicDetail], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Result[models.LocalTopicDetail]{}, fmt.Errorf("topic id is required: %w", ErrInvalidInput)
	}
	if s.store == nil {
		return s.fallbackTopic(id, ErrNotConfigured.Error())
	}
	detail, err := remember(ctx, s.memo, "local:topic:"+id, func(ctx context.Context) (models.LocalTopicDetail, error) {
		return s.liveTopic(ctx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Result[models.LocalTopicDetail]{}, fmt.Errorf("local topic %s: %w", id, ErrNotFound)
	}
	if err != nil {
		s.log.Error("local topic query failed", "id", id, "err", err)
		return s.fallbackTopic(id, err.Error())
	}
	return live(detail), nil
}

func (s *LocalService) fallbackTopic(id, reason string) (Result[models.LocalTopicDetail], error) {
	t, ok, err := fallback.LocalTopic(id)
	if err != nil {
		return Result[models.LocalTopicDetail]{}, err
	}
	if !ok {
		return Result[models.LocalTopicDetail]{}, fmt.Errorf("local topic %s: %w", id, ErrNotFound)
	}
	perspectives := make([]models.Perspective, 0, len(t.Stances))
	for _, e := range t.Stances {
		perspectives = append(perspectives, models.Perspective{Stance: e.Stance, CountryCode: e.CountryCode})
	}
	level := t.DisplayLevel
	if level == 0 {
		level = defaultLevel
	}
	return fellBack(models.LocalTopicDetail{
		TopicID:      t.TopicID,
		Title:        t.Title,
		Keyword:      t.Keyword,
		ArticleCount: t.ArticleCount,
		DisplayLevel: level,
		MediaType:    t.MediaType,
		MediaURL:     t.MediaURL,
		Stances:      perspectives,
		Distribution: distributionOf(s.minVisible, t.Stances),
		Keywords:     t.Keywords,
		Category:     t.Category,
		Articles:     []models.LocalArticle{},
	}, reason), nil
}

func (s *LocalService) liveTopic(ctx context.Context, id string) (models.LocalTopicDetail, error) {
	topic, err := s.store.LocalTopicByID(ctx, id)
	if err != nil {
		return models.LocalTopicDetail{}, err
	}
	articles, err := s.store.ArticlesByLocalTopic(ctx, id, detailArticles)
	if err != nil {
		return models.LocalTopicDetail{}, err
	}

	byID := make(map[string]models.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	perspectives := []models.Perspective{}
	if refs := topic.Stances.Refs; refs != nil {
		for _, group := range []struct {
			ids    []string
			bucket stance.Bucket
		}{
			{refs.Supportive, stance.Supportive},
			{refs.Critical, stance.Critical},
			{refs.Factual, stance.Factual},
		} {
			for _, aid := range group.ids {
				a, ok := byID[aid]
				if !ok {
					continue
				}
				perspectives = append(perspectives, models.Perspective{
					CountryCode: a.CountryCode,
					Stance:      group.bucket.WireLabel(),
					OneLinerKo:  a.DisplayTitle(),
					SourceLink:  a.URL,
					SourceName:  a.SourceName,
				})
			}
		}
	}

	out := make([]models.LocalArticle, 0, len(articles))
	for _, a := range articles {
		out = append(out, models.LocalArticle{
			ID:            a.ID,
			Title:         a.DisplayTitle(),
			TitleKo:       a.TitleKo,
			TitleOriginal: a.TitleOriginal,
			CountryCode:   a.CountryCode,
			Source:        a.SourceName,
			PublishedAt:   a.PublishedAt,
			URL:           a.URL,
			GlobalTopicID: a.GlobalTopicID,
		})
	}

	level := defaultLevel
	if topic.DisplayLevel != nil && *topic.DisplayLevel != 0 {
		level = *topic.DisplayLevel
	}
	var keywords []string
	if len(topic.Keywords) > 0 {
		keywords = topic.Keywords
	}

	return models.LocalTopicDetail{
		TopicID:       topic.ID,
		Title:         firstNonEmpty(topic.Headline, topic.TopicName),
		Keyword:       firstNonEmpty(first(topic.Keywords), topic.TopicName),
		ArticleCount:  topic.ArticleCount,
		DisplayLevel:  level,
		MediaType:     mediaType(topic.ThumbnailURL),
		MediaURL:      optional(topic.ThumbnailURL),
		Stances:       perspectives,
		Distribution:  stance.Aggregate(topic.Stances.Signals(), s.minVisible),
		Keywords:      keywords,
		Category:      optional(topic.Category),
		CountryCode:   optional(topic.CountryCode),
		GlobalTopicID: topic.GlobalTopicID,
		AISummary:     optional(topic.AISummary),
		Articles:      out,
	}, nil
}

// isGlobal guesses whether a local topic is part of a wider story.
func isGlobal(t models.LocalTopic, country string) bool {
	category := strings.ToLower(t.Category)
	return len(t.TopicIDs) > 0 ||
		(t.CountryCode != "" && t.CountryCode != country) ||
		t.SourceCount > 5 ||
		t.CountryCount >= 3 ||
		strings.Contains(category, "world") ||
		strings.Contains(category, "international")
}

func keywordOf(t models.LocalTopic) string {
	return firstNonEmpty(first(t.Keywords), t.TopicName, t.Headline)
}

func mediaType(thumbnail string) string {
	if thumbnail != "" {
		return "IMAGE"
	}
	return "NONE"
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
