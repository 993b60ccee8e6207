package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"news-spectrum/models"
	"news-spectrum/stance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTopics(store TopicStore) *TopicService {
	svc := NewTopicService(store, testConfig(), quiet).WithRand(rand.New(rand.NewSource(7)))
	svc.now = func() time.Time { return base }
	return svc
}

func TestTopicsAggregation(t *testing.T) {
	store := &fakeStore{
		topics: []models.LegacyTopic{
			{ID: "KR-1", Title: "a", TitleKr: "가", Date: "2025-01-15", CreatedAt: base.Add(-time.Hour)},
			{ID: "KR-2", Title: "b", TitleKr: "가", Date: "2025-01-15", CreatedAt: base.Add(-2 * time.Hour)},
			{ID: "US-1", Title: "c", Date: "2025-01-14", MergedFromTopics: models.StringList{"US-9", "CA-3", "US-4"}, CreatedAt: base.Add(-30 * time.Hour)},
			{ID: "JP-7", Title: "d", Date: "2025-01-15", CreatedAt: base.Add(-10 * time.Minute)},
			{ID: "ghost", Title: "e", Date: "2025-01-15", CreatedAt: base},
		},
		legacy: []models.LegacyArticle{
			{ID: "1", TopicID: "KR-1", CountryCode: "KR"},
			{ID: "2", TopicID: "KR-2", CountryCode: "KR"},
			{ID: "3", TopicID: "KR-2", CountryCode: "US"},
			{ID: "4", TopicID: "US-1"},
			{ID: "5", TopicID: "JP-7"},
		},
	}

	out, err := newTopics(store).Topics(context.Background(), TopicsQuery{})
	require.NoError(t, err)

	ids := make([]string, 0, len(out.Data))
	for _, d := range out.Data {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"KR-2", "JP-7", "US-1"}, ids)

	assert.Equal(t, []string{"KR", "US"}, out.Data[0].CountriesInvolved)
	assert.Equal(t, 2, out.Data[0].ArticleCount)
	assert.Equal(t, []string{"JP"}, out.Data[1].CountriesInvolved)
	assert.Equal(t, []string{"US", "CA"}, out.Data[2].CountriesInvolved)

	assert.Equal(t, 2, out.Meta.Count)
	assert.Equal(t, base, out.Meta.UpdatedAt)
}

func TestTopicsEmptyAndUnconfigured(t *testing.T) {
	out, err := newTopics(&fakeStore{}).Topics(context.Background(), TopicsQuery{Date: "2025-01-01"})
	require.NoError(t, err)
	assert.Empty(t, out.Data)
	assert.NotNil(t, out.Data)

	_, err = newTopics(nil).Topics(context.Background(), TopicsQuery{})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestInferCountries(t *testing.T) {
	assert.Equal(t, []string{"KR"}, inferCountries(models.LegacyTopic{ID: "KR-topic-1"}))
	assert.Empty(t, inferCountries(models.LegacyTopic{ID: "12345"}))
	assert.Empty(t, inferCountries(models.LegacyTopic{ID: "KOR-1"}))
	assert.Equal(t, []string{"FR", "DE"}, inferCountries(models.LegacyTopic{ID: "x", MergedFromTopics: models.StringList{"FR-1", "DE-2", "FR-3"}}))
}

func TestTopicDetailTotals(t *testing.T) {
	store := &fakeStore{
		topics: []models.LegacyTopic{{ID: "t1", Title: "topic"}},
		stats: []models.TopicCountryStat{
			{TopicID: "t1", CountryCode: "KR", SupportiveCount: 2, FactualCount: 5, CriticalCount: 1},
			{TopicID: "t1", CountryCode: "US", SupportiveCount: 0, FactualCount: 1, CriticalCount: 3},
		},
	}
	d, err := newTopics(store).Topic(context.Background(), "t1", false)
	require.NoError(t, err)

	assert.Equal(t, "topic", d.Title)
	assert.Equal(t, []string{"KR", "US"}, d.CountriesInvolved)
	assert.Equal(t, 12, d.ArticleCount)
	assert.Equal(t, 2, d.TotalSupportive)
	assert.Equal(t, 6, d.TotalFactual)
	assert.Equal(t, 4, d.TotalCritical)
	assert.Equal(t, 12, d.Distribution.Total)
	assert.Empty(t, d.Articles)
	assert.NotNil(t, d.Articles)

	_, err = newTopics(store).Topic(context.Background(), "nope", true)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSampleCoversEveryStance(t *testing.T) {
	var pool []models.LegacyArticle
	for i := 0; i < 20; i++ {
		pool = append(pool, models.LegacyArticle{ID: fmt.Sprint("f", i), Stance: "Factual"})
	}
	pool = append(pool,
		models.LegacyArticle{ID: "s", Stance: "Supportive"},
		models.LegacyArticle{ID: "c", Stance: "Critical"},
	)

	svc := newTopics(&fakeStore{})
	for seed := int64(0); seed < 20; seed++ {
		svc.WithRand(rand.New(rand.NewSource(seed)))
		got := svc.sample(pool, 5)
		require.Len(t, got, 5)

		seen := map[string]bool{}
		buckets := map[stance.Bucket]bool{}
		for _, a := range got {
			assert.False(t, seen[a.ID], "duplicate %s", a.ID)
			seen[a.ID] = true
			buckets[stance.Classify(a.Stance)] = true
		}
		assert.Len(t, buckets, 3)
		assert.Equal(t, "s", got[0].ID)
	}
}

func TestSampleSmallPool(t *testing.T) {
	pool := []models.LegacyArticle{{ID: "1", Stance: "Critical"}, {ID: "2", Stance: "Critical"}}
	got := newTopics(&fakeStore{}).sample(pool, 5)
	assert.Len(t, got, 2)
}

func TestArticlesPagination(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 45; i++ {
		country := "KR"
		if i%3 == 0 {
			country = "US"
		}
		store.legacy = append(store.legacy, models.LegacyArticle{ID: fmt.Sprint(i), TopicID: "t1", CountryCode: country, Stance: "Factual"})
	}
	svc := newTopics(store)

	page, err := svc.Articles(context.Background(), ArticlesQuery{TopicID: "t1", Page: 3})
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, models.Pagination{Page: 3, Limit: 20, Total: 45, TotalPages: 3, HasMore: false}, page.Pagination)

	page, err = svc.Articles(context.Background(), ArticlesQuery{TopicID: "t1", Country: "US", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 10, Total: 15, TotalPages: 2, HasMore: true}, page.Pagination)

	page, err = svc.Articles(context.Background(), ArticlesQuery{TopicID: "none"})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}
