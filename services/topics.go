package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"news-spectrum/config"
	"news-spectrum/database"
	"news-spectrum/models"
	"news-spectrum/ranking"
	"news-spectrum/stance"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

const (
	defaultTopicsLimit   = 500
	defaultArticlesLimit = 20
	sampledArticlePool   = 50
	sampledArticles      = 5
)

// TopicService serves the daily topics tables.
type TopicService struct {
	store      TopicStore
	log        *log.Logger
	minVisible float64
	now        func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTopicService creates the service. A nil store makes every call fail
// with ErrNotConfigured.
func NewTopicService(store TopicStore, cfg config.Config, logger *log.Logger) *TopicService {
	return &TopicService{
		store:      store,
		log:        logger,
		minVisible: cfg.MinVisiblePercent,
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the source used to sample preview articles.
func (s *TopicService) WithRand(rng *rand.Rand) *TopicService {
	s.mu.Lock()
	s.rng = rng
	s.mu.Unlock()
	return s
}

// TopicsQuery filters the daily listing. An empty Date lists the newest
// topics.
type TopicsQuery struct {
	Date  string
	Limit int
}

// Topics lists daily topics with their article counts and countries,
// dropping topics without articles and duplicate titles.
func (s *TopicService) Topics(ctx context.Context, q TopicsQuery) (models.DailyTopics, error) {
	if s.store == nil {
		return models.DailyTopics{}, ErrNotConfigured
	}
	if q.Limit < 1 {
		q.Limit = defaultTopicsLimit
	}

	topics, err := s.store.Topics(ctx, database.TopicQuery{Date: q.Date, Limit: q.Limit})
	if err != nil {
		return models.DailyTopics{}, err
	}
	out := models.DailyTopics{
		Meta: models.DailyTopicsMeta{UpdatedAt: time.Unix(0, 0).UTC()},
		Data: []models.DailyTopic{},
	}
	if len(topics) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	meta, err := s.store.ArticleMetaByTopics(ctx, ids)
	if err != nil {
		s.log.Warn("article metadata unavailable", "err", err)
	}
	counts := map[string]int{}
	countries := map[string]*orderedSet{}
	for _, m := range meta {
		counts[m.TopicID]++
		if countries[m.TopicID] == nil {
			countries[m.TopicID] = &orderedSet{}
		}
		countries[m.TopicID].add(m.CountryCode)
	}

	var keys []string
	unique := map[string]models.DailyTopic{}
	for _, t := range topics {
		n := counts[t.ID]
		if n == 0 {
			continue
		}
		var involved []string
		if c := countries[t.ID]; c != nil {
			involved = c.items
		}
		if len(involved) == 0 {
			involved = inferCountries(t)
		}
		dt := models.DailyTopic{
			LegacyTopic:       t,
			ArticleCount:      n,
			CountriesInvolved: orEmpty(involved),
			Stats:             []models.TopicCountryStat{},
		}

		key := firstNonEmpty(t.TitleKr, t.Title)
		existing, seen := unique[key]
		if !seen {
			keys = append(keys, key)
		}
		if !seen || dt.ArticleCount > existing.ArticleCount {
			unique[key] = dt
		}
	}

	deduped := make([]models.DailyTopic, 0, len(keys))
	today := s.now().UTC().Format(time.DateOnly)
	for _, k := range keys {
		dt := unique[k]
		if dt.Day() == today {
			out.Meta.Count++
		}
		deduped = append(deduped, dt)
	}

	out.Data = ranking.RankBy(deduped, func(dt models.DailyTopic) ranking.Rankable {
		return ranking.Rankable{
			ID:           dt.ID,
			ArticleCount: dt.ArticleCount,
			CountryCount: len(dt.CountriesInvolved),
			Date:         dt.Day(),
		}
	}, ranking.DateFirst)

	for _, t := range topics {
		ts := t.CreatedAt
		if ts.IsZero() {
			ts, _ = time.Parse(time.DateOnly, t.Day())
		}
		if ts.After(out.Meta.UpdatedAt) {
			out.Meta.UpdatedAt = ts.UTC()
		}
	}
	return out, nil
}

// inferCountries derives countries from merged topic ids ("KR-...") or the
// topic's own id prefix.
func inferCountries(t models.LegacyTopic) []string {
	set := &orderedSet{}
	if len(t.MergedFromTopics) > 0 {
		for _, id := range t.MergedFromTopics {
			set.add(strings.SplitN(id, "-", 2)[0])
		}
		return set.items
	}
	parts := strings.Split(t.ID, "-")
	if len(parts) >= 2 && len(parts[0]) == 2 {
		set.add(parts[0])
	}
	return set.items
}

// Topic returns a daily topic with its per-country stance totals and, when
// includeArticles is set, a small stance-diverse preview of its articles.
func (s *TopicService) Topic(ctx context.Context, id string, includeArticles bool) (models.TopicDetail, error) {
	if s.store == nil {
		return models.TopicDetail{}, ErrNotConfigured
	}
	topic, err := s.store.TopicByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TopicDetail{}, fmt.Errorf("topic %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.TopicDetail{}, err
	}

	articles := []models.LegacyArticle{}
	if includeArticles {
		pool, err := s.store.TopArticles(ctx, id, sampledArticlePool)
		if err != nil {
			s.log.Warn("topic articles unavailable", "id", id, "err", err)
		} else {
			articles = s.sample(pool, sampledArticles)
		}
	}

	stats, err := s.store.CountryStats(ctx, id)
	if err != nil {
		return models.TopicDetail{}, err
	}
	var totals stance.Counts
	involved := make([]string, 0, len(stats))
	for _, st := range stats {
		totals = totals.Add(stance.Counts{
			Supportive: st.SupportiveCount,
			Factual:    st.FactualCount,
			Critical:   st.CriticalCount,
		})
		involved = append(involved, st.CountryCode)
	}
	if stats == nil {
		stats = []models.TopicCountryStat{}
	}

	return models.TopicDetail{
		LegacyTopic:       *topic,
		Stats:             stats,
		Articles:          articles,
		CountriesInvolved: involved,
		ArticleCount:      totals.Total(),
		TotalSupportive:   totals.Supportive,
		TotalFactual:      totals.Factual,
		TotalCritical:     totals.Critical,
		Distribution:      stance.FromCounts(totals, s.minVisible),
	}, nil
}

// sample picks one random article per stance bucket, supportive first, then
// fills up to n from a shuffle of the rest.
func (s *TopicService) sample(pool []models.LegacyArticle, n int) []models.LegacyArticle {
	s.mu.Lock()
	defer s.mu.Unlock()

	byBucket := map[stance.Bucket][]int{}
	for i, a := range pool {
		b := stance.Classify(a.Stance)
		byBucket[b] = append(byBucket[b], i)
	}

	selected := make([]models.LegacyArticle, 0, n)
	taken := map[int]bool{}
	for _, b := range stance.Buckets {
		idx := byBucket[b]
		if len(idx) == 0 || len(selected) == n {
			continue
		}
		pick := idx[s.rng.Intn(len(idx))]
		taken[pick] = true
		selected = append(selected, pool[pick])
	}

	remaining := make([]models.LegacyArticle, 0, len(pool))
	for i, a := range pool {
		if !taken[i] {
			remaining = append(remaining, a)
		}
	}
	for i := len(remaining) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		remaining[i], remaining[j] = remaining[j], remaining[i]
	}
	for len(selected) < n && len(remaining) > 0 {
		last := len(remaining) - 1
		selected = append(selected, remaining[last])
		remaining = remaining[:last]
	}
	return selected
}

// ArticlesQuery pages through a daily topic's articles.
type ArticlesQuery struct {
	TopicID string
	Page    int
	Limit   int
	Country string
	Stance  string
}

// Articles returns one page of a topic's articles, newest first.
func (s *TopicService) Articles(ctx context.Context, q ArticlesQuery) (models.ArticlePage, error) {
	if s.store == nil {
		return models.ArticlePage{}, ErrNotConfigured
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultArticlesLimit
	}

	articles, total, err := s.store.ArticlesByTopic(ctx, database.ArticleQuery{
		TopicID: q.TopicID,
		Country: q.Country,
		Stance:  q.Stance,
		Offset:  (q.Page - 1) * q.Limit,
		Limit:   q.Limit,
	})
	if err != nil {
		return models.ArticlePage{}, err
	}
	if articles == nil {
		articles = []models.LegacyArticle{}
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return models.ArticlePage{
		Data: articles,
		Pagination: models.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    q.Page < totalPages,
		},
	}, nil
}
