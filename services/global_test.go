package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"news-spectrum/models"
	"news-spectrum/stance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

// memCache is a map-backed cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
	return nil
}

func (m *memCache) Close() error { return nil }

func globalFixture() *fakeStore {
	return &fakeStore{
		globals: []models.GlobalTopic{
			{ID: "g1", Headline: "관세 전쟁", Countries: models.StringList{"US"}, CountryCount: 1, ArticleCount: 10,
				Stances: stance.Set{Refs: &stance.Refs{Factual: []string{"a9"}}}, CreatedAt: base.Add(-time.Hour)},
			{ID: "g2", TitleKo: "기후 합의", IsPinned: true, ArticleCount: 2,
				Stances: stance.Set{List: []stance.Entry{{Stance: "긍정적"}}}, CreatedAt: base.Add(-2 * time.Hour)},
			{ID: "g-old", Headline: "old", CreatedAt: base.Add(-48 * time.Hour)},
		},
		locals: []models.LocalTopic{
			{ID: "l1", CountryCode: "KR", Category: "politics", ThumbnailURL: "http://thumb",
				Stances: stance.Set{Refs: &stance.Refs{Critical: []string{"a1", "a3"}, Supportive: []string{"a2"}}}},
		},
		articles: []models.Article{
			{ID: "a1", TitleKo: "한국 기사", TitleOriginal: "KR story", URL: "http://a1", SourceName: "KR Daily", CountryCode: "KR",
				GlobalTopicID: strp("g1"), LocalTopicID: strp("l1"), PublishedAt: base.Add(-time.Hour)},
			{ID: "a2", TitleOriginal: "JP story", URL: "http://a2", CountryCode: "JP",
				GlobalTopicID: strp("g1"), PublishedAt: base.Add(-2 * time.Hour)},
			{ID: "a9", TitleOriginal: "US story", URL: "http://a9", CountryCode: "US", PublishedAt: base.Add(-3 * time.Hour)},
		},
	}
}

func newGlobal(store GlobalStore) *GlobalService {
	svc := NewGlobalService(store, testConfig(), nil, quiet)
	svc.now = func() time.Time { return base }
	return svc
}

func TestGlobalListAggregatesAndRanks(t *testing.T) {
	store := globalFixture()
	res, err := newGlobal(store).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceLive, res.Source)
	assert.Equal(t, base.Add(-24*time.Hour), store.lastSeen)

	require.Len(t, res.Data, 2)
	assert.Equal(t, "g2", res.Data[0].ID, "pinned topic first")

	g1 := res.Data[1]
	assert.Equal(t, "관세 전쟁", g1.TitleKo)
	assert.Equal(t, []string{"KR", "JP", "US"}, g1.Countries)
	assert.Equal(t, 3, g1.CountryCount)
	assert.Equal(t, []stance.Entry{{Stance: "NEGATIVE"}, {Stance: "NEGATIVE"}, {Stance: "POSITIVE"}}, g1.Stances)
	assert.Equal(t, 2, g1.Distribution.Critical)
	assert.Equal(t, 1, g1.Distribution.Supportive)

	g2 := res.Data[0]
	assert.Equal(t, "기후 합의", g2.TitleKo)
	assert.Equal(t, 2, g2.ArticleCount)
	assert.Equal(t, 1, g2.Distribution.Supportive)
	assert.Equal(t, []string{}, g2.Countries)
}

func TestGlobalListFallsBack(t *testing.T) {
	cases := map[string]GlobalStore{
		"no database": nil,
		"query error": &fakeStore{err: errBoom},
		"no rows":     &fakeStore{},
	}
	for name, store := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := newGlobal(store).List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, SourceFallback, res.Source)
			assert.NotEmpty(t, res.Reason)
			require.NotEmpty(t, res.Data)
			assert.Positive(t, res.Data[0].Distribution.Total)
		})
	}
}

func TestGlobalListUsesCache(t *testing.T) {
	store := globalFixture()
	cfg := testConfig()
	cfg.CacheTTLSeconds = 60
	svc := NewGlobalService(store, cfg, &memCache{}, quiet)
	svc.now = func() time.Time { return base }

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, SourceLive, second.Source)
	require.Len(t, second.Data, len(first.Data))
	assert.Equal(t, first.Data[1].Stances, second.Data[1].Stances)
	assert.Equal(t, first.Data[1].Distribution, second.Data[1].Distribution)
}

func TestGlobalCard(t *testing.T) {
	res, err := newGlobal(globalFixture()).Card(context.Background(), "g1")
	require.NoError(t, err)
	require.Equal(t, SourceLive, res.Source)
	card := res.Data

	assert.Equal(t, "g1", card.TopicID)
	assert.Equal(t, "관세 전쟁", card.Title)
	require.NotNil(t, card.ThumbnailURL)
	assert.Equal(t, "http://thumb", *card.ThumbnailURL)
	require.NotNil(t, card.Category)
	assert.Equal(t, "politics", *card.Category)
	assert.Empty(t, card.Perspectives)
	assert.NotNil(t, card.Perspectives)

	ids := make([]string, 0, len(card.Articles))
	for _, a := range card.Articles {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a1", "a2", "a9"}, ids)

	require.Len(t, card.RelatedArticles, 2)
	assert.Equal(t, "한국 기사", card.RelatedArticles[0].Title)
	assert.Equal(t, "JP story", card.RelatedArticles[1].Title)

	require.Len(t, card.Stances, 3)
	assert.Equal(t, models.Perspective{
		CountryCode: "KR", Stance: "NEGATIVE", OneLinerKo: "한국 기사",
		SourceLink: "http://a1", SourceName: "KR Daily", FlagEmoji: "🇰🇷",
	}, card.Stances[0])
	assert.Equal(t, "POSITIVE", card.Stances[1].Stance)
	assert.Equal(t, "NEUTRAL", card.Stances[2].Stance)
	assert.Equal(t, "🇺🇸", card.Stances[2].FlagEmoji)

	assert.Equal(t, 1, card.Distribution.Critical)
	assert.Equal(t, 1, card.Distribution.Supportive)
	assert.Equal(t, 1, card.Distribution.Factual)
	require.Len(t, card.ByCountry, 3)
	assert.Equal(t, "KR", card.ByCountry[0].CountryCode)
}

func TestGlobalCardResolvesUnknownToLatest(t *testing.T) {
	res, err := newGlobal(globalFixture()).Card(context.Background(), "not-a-topic")
	require.NoError(t, err)
	assert.Equal(t, SourceLive, res.Source)
	assert.Equal(t, "g1", res.Data.TopicID)
}

func TestGlobalCardFallback(t *testing.T) {
	res, err := newGlobal(&fakeStore{}).Card(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.NotEmpty(t, res.Data.TopicID)
	assert.Positive(t, res.Data.Distribution.Total)

	res, err = newGlobal(nil).Card(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
}

func TestDominantCategory(t *testing.T) {
	lt := func(cats ...string) []models.LocalTopic {
		out := make([]models.LocalTopic, 0, len(cats))
		for _, c := range cats {
			out = append(out, models.LocalTopic{Category: c})
		}
		return out
	}
	assert.Equal(t, "b", dominantCategory(lt("a", "b", "b")))
	assert.Equal(t, "a", dominantCategory(lt("a", "b", "b", "a")))
	assert.Equal(t, "", dominantCategory(lt("", "")))
}

func TestFlagEmoji(t *testing.T) {
	assert.Equal(t, "🇰🇷", FlagEmoji("kr"))
	assert.Equal(t, "🇺🇸", FlagEmoji("US"))
	assert.Equal(t, "", FlagEmoji(""))
}

func TestGlobalWarmRefreshesCache(t *testing.T) {
	store := globalFixture()
	cfg := testConfig()
	cfg.CacheTTLSeconds = 60
	mem := &memCache{}
	svc := NewGlobalService(store, cfg, mem, quiet)
	svc.now = func() time.Time { return base }

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Warm(context.Background()))
	assert.Equal(t, 2, store.calls)
	assert.Contains(t, mem.data, globalListKey)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)

	assert.ErrorIs(t, NewGlobalService(nil, cfg, mem, quiet).Warm(context.Background()), ErrNotConfigured)
	assert.Error(t, newGlobal(&fakeStore{}).Warm(context.Background()))
}

func TestGlobalCardCachedByResolvedTopic(t *testing.T) {
	cfg := testConfig()
	cfg.CacheTTLSeconds = 60
	mem := &memCache{}
	svc := NewGlobalService(globalFixture(), cfg, mem, quiet)
	svc.now = func() time.Time { return base }

	for _, id := range []string{"garbage-1", "garbage-2", "g1"} {
		res, err := svc.Card(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "g1", res.Data.TopicID)
	}

	var keys []string
	for k := range mem.data {
		if strings.HasPrefix(k, "global:card:") {
			keys = append(keys, k)
		}
	}
	assert.Equal(t, []string{cardKey("g1")}, keys)
}
