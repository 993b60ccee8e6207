package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func ids(rs []Rankable) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestRankArticleCountTieBreak(t *testing.T) {
	in := []Rankable{
		{ID: "small", CountryCount: 2, ArticleCount: 10},
		{ID: "big", CountryCount: 2, ArticleCount: 20},
	}
	require.Equal(t, []string{"big", "small"}, ids(Rank(in, PinAware)))
	require.Equal(t, []string{"big", "small"}, ids(Rank(in, DateFirst)))
}

func TestRankPinAware(t *testing.T) {
	now := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	in := []Rankable{
		{ID: "old", CountryCount: 1, ArticleCount: 5, CreatedAt: now.Add(-time.Hour)},
		{ID: "new", CountryCount: 1, ArticleCount: 5, CreatedAt: now},
		{ID: "wide", CountryCount: 4, ArticleCount: 1},
		{ID: "pinned", IsPinned: true},
		{ID: "rank2", Rank: intp(2)},
		{ID: "rank1", Rank: intp(1)},
	}
	got := ids(Rank(in, PinAware))
	assert.Equal(t, []string{"pinned", "wide", "new", "old", "rank1", "rank2"}, got)

	ranked := Rank([]Rankable{in[4], in[5]}, PinAware)
	assert.Equal(t, []string{"rank1", "rank2"}, ids(ranked))

	// rank only decides when both sides carry one
	mixed := Rank([]Rankable{{ID: "r", Rank: intp(1)}, {ID: "p", IsPinned: true}}, PinAware)
	assert.Equal(t, []string{"p", "r"}, ids(mixed))

	byCountry := Rank([]Rankable{in[0], in[2]}, PinAware)
	assert.Equal(t, []string{"wide", "old"}, ids(byCountry))
}

func TestRankDateFirst(t *testing.T) {
	in := []Rankable{
		{ID: "yesterday", Date: "2025-11-30", CountryCount: 9},
		{ID: "today-narrow", Date: "2025-12-01", CountryCount: 1, ArticleCount: 50},
		{ID: "today-wide", Date: "2025-12-01", CountryCount: 3},
		{ID: "pinned", Date: "2025-11-01", IsPinned: true, Rank: intp(1)},
	}
	assert.Equal(t, []string{"today-wide", "today-narrow", "yesterday", "pinned"}, ids(Rank(in, DateFirst)))
}

func TestRankIsStableAndDoesNotMutate(t *testing.T) {
	in := []Rankable{{ID: "a"}, {ID: "b"}, {ID: "c", ArticleCount: 1}}
	got := Rank(in, PinAware)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
	assert.Equal(t, []string{"a", "b", "c"}, ids(in))
	assert.Empty(t, Rank(nil, PinAware))
}

func TestRankByCustomType(t *testing.T) {
	type topic struct {
		name     string
		articles int
	}
	in := []topic{{"x", 1}, {"y", 3}, {"z", 2}}
	got := RankBy(in, func(tp topic) Rankable { return Rankable{ArticleCount: tp.articles} }, PinAware)
	assert.Equal(t, []topic{{"y", 3}, {"z", 2}, {"x", 1}}, got)
}

func TestDisplayLevelsTen(t *testing.T) {
	got := DisplayLevels(make([]*int, 10))
	assert.Equal(t, []int{1, 1, 2, 2, 2, 3, 3, 3, 3, 3}, got)
}

func TestDisplayLevelsKeepsExisting(t *testing.T) {
	existing := make([]*int, 10)
	existing[0] = intp(3)
	existing[9] = intp(1)
	got := DisplayLevels(existing)
	assert.Equal(t, []int{3, 1, 2, 2, 2, 3, 3, 3, 3, 1}, got)
}

func TestDisplayLevelsSmallLists(t *testing.T) {
	assert.Empty(t, DisplayLevels(nil))
	assert.Equal(t, []int{3}, DisplayLevels(make([]*int, 1)))
	assert.Equal(t, []int{2, 3}, DisplayLevels(make([]*int, 2)))
	assert.Equal(t, []int{1, 2, 3, 3, 3}, DisplayLevels(make([]*int, 5)))
}
