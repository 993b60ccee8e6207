package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"news-spectrum/config"
	"news-spectrum/database"
	"news-spectrum/logging"
	"news-spectrum/models"

	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for database.Store.
type fakeStore struct {
	globals   []models.GlobalTopic
	locals    []models.LocalTopic
	articles  []models.Article
	topics    []models.LegacyTopic
	legacy    []models.LegacyArticle
	stats     []models.TopicCountryStat
	snapshots []models.TopicHistory

	err      error
	calls    int
	lastSeen time.Time
}

var errBoom = errors.New("boom")

func testConfig() config.Config {
	return config.Config{
		MinVisiblePercent: 3,
		TimelineMaxDepth:  30,
		GlobalWindowHours: 24,
		GlobalLimit:       50,
	}
}

var quiet = logging.Discard()

func (f *fakeStore) RecentGlobalTopics(_ context.Context, since time.Time, limit int) ([]models.GlobalTopic, error) {
	f.calls++
	f.lastSeen = since
	if f.err != nil {
		return nil, f.err
	}
	var out []models.GlobalTopic
	for _, t := range f.globals {
		if !t.CreatedAt.Before(since) {
			out = append(out, t)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) GlobalTopicByID(_ context.Context, id string) (*models.GlobalTopic, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.globals {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) LatestGlobalTopic(context.Context) (*models.GlobalTopic, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.globals) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	latest := f.globals[0]
	for _, t := range f.globals[1:] {
		if t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	return &latest, nil
}

func (f *fakeStore) ArticlesByGlobalTopics(_ context.Context, ids []string) ([]models.Article, error) {
	var out []models.Article
	for _, a := range f.articles {
		if a.GlobalTopicID != nil && contains(ids, *a.GlobalTopicID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ArticlesForGlobalTopic(_ context.Context, id string, limit int) ([]models.Article, error) {
	var out []models.Article
	for _, a := range byPublished(f.articles) {
		if a.GlobalTopicID != nil && *a.GlobalTopicID == id && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ArticlesByIDs(_ context.Context, ids []string) ([]models.Article, error) {
	var out []models.Article
	for _, a := range byPublished(f.articles) {
		if contains(ids, a.ID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) LocalTopicsByIDs(_ context.Context, ids []string) ([]models.LocalTopic, error) {
	var out []models.LocalTopic
	for _, t := range f.locals {
		if contains(ids, t.ID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) PublishedLocalTopics(_ context.Context, country string, offset, limit int) ([]models.LocalTopic, int64, error) {
	f.calls++
	if f.err != nil {
		return nil, 0, f.err
	}
	var all []models.LocalTopic
	for _, t := range f.locals {
		if t.CountryCode == country && t.IsPublished {
			all = append(all, t)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (f *fakeStore) LocalTopicByID(_ context.Context, id string) (*models.LocalTopic, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.locals {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) ArticlesByLocalTopic(_ context.Context, id string, limit int) ([]models.Article, error) {
	var out []models.Article
	for _, a := range byPublished(f.articles) {
		if a.LocalTopicID != nil && *a.LocalTopicID == id && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) Topics(_ context.Context, q database.TopicQuery) ([]models.LegacyTopic, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.LegacyTopic
	for _, t := range f.topics {
		if q.Date == "" || t.Date == q.Date {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ArticleMetaByTopics(_ context.Context, ids []string) ([]database.ArticleMeta, error) {
	var out []database.ArticleMeta
	for _, a := range f.legacy {
		if contains(ids, a.TopicID) {
			out = append(out, database.ArticleMeta{TopicID: a.TopicID, CountryCode: a.CountryCode})
		}
	}
	return out, nil
}

func (f *fakeStore) TopicByID(_ context.Context, id string) (*models.LegacyTopic, error) {
	for _, t := range f.topics {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) TopArticles(_ context.Context, topicID string, limit int) ([]models.LegacyArticle, error) {
	var out []models.LegacyArticle
	for _, a := range f.legacy {
		if a.TopicID == topicID && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ArticlesByTopic(_ context.Context, q database.ArticleQuery) ([]models.LegacyArticle, int64, error) {
	var all []models.LegacyArticle
	for _, a := range f.legacy {
		if a.TopicID != q.TopicID {
			continue
		}
		if q.Country != "" && a.CountryCode != q.Country {
			continue
		}
		if q.Stance != "" && a.Stance != q.Stance {
			continue
		}
		all = append(all, a)
	}
	total := int64(len(all))
	if q.Offset >= len(all) {
		return nil, total, nil
	}
	return all[q.Offset:min(q.Offset+q.Limit, len(all))], total, nil
}

func (f *fakeStore) CountryStats(_ context.Context, topicID string) ([]models.TopicCountryStat, error) {
	var out []models.TopicCountryStat
	for _, s := range f.stats {
		if s.TopicID == topicID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) LatestHistory(_ context.Context, topicID string) (*models.TopicHistory, error) {
	if f.err != nil {
		return nil, f.err
	}
	var latest *models.TopicHistory
	for i, s := range f.snapshots {
		if s.TopicID == topicID && (latest == nil || s.Date > latest.Date) {
			latest = &f.snapshots[i]
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (f *fakeStore) HistoryByID(_ context.Context, id int64) (*models.TopicHistory, error) {
	for i := range f.snapshots {
		if f.snapshots[i].ID == id {
			return &f.snapshots[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) HistoryByDate(_ context.Context, date string) ([]models.TopicHistory, error) {
	var out []models.TopicHistory
	for _, s := range f.snapshots {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func byPublished(articles []models.Article) []models.Article {
	out := append([]models.Article(nil), articles...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out
}

func strp(s string) *string { return &s }
func intp(v int) *int       { return &v }
