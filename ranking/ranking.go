// Package ranking orders topic listings and assigns display levels.
package ranking

import (
	"sort"
	"time"
)

// Profile selects the comparator used by Rank.
type Profile int

const (
	// PinAware is the global insights ordering: explicit rank, pinned,
	// country count, article count, recency.
	PinAware Profile = iota
	// DateFirst is the daily topics ordering: date, country count,
	// article count.
	DateFirst
)

// Rankable is the view of a topic the comparators read.
type Rankable struct {
	ID           string
	Rank         *int
	IsPinned     bool
	ArticleCount int
	CountryCount int
	CreatedAt    time.Time
	// Date is an ISO YYYY-MM-DD day, compared lexically.
	Date string
}

// Rank returns a stably sorted copy of topics.
func Rank(topics []Rankable, profile Profile) []Rankable {
	return RankBy(topics, func(r Rankable) Rankable { return r }, profile)
}

// RankBy returns a stably sorted copy of items, reading each item's ranking
// fields through key.
func RankBy[T any](items []T, key func(T) Rankable, profile Profile) []T {
	out := make([]T, len(items))
	copy(out, items)
	keys := make([]Rankable, len(out))
	for i, it := range out {
		keys[i] = key(it)
	}

	less := pinAwareLess
	if profile == DateFirst {
		less = dateFirstLess
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return less(keys[idx[i]], keys[idx[j]])
	})

	sorted := make([]T, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}

func pinAwareLess(a, b Rankable) bool {
	if a.Rank != nil && b.Rank != nil && *a.Rank != *b.Rank {
		return *a.Rank < *b.Rank
	}
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	if a.CountryCount != b.CountryCount {
		return a.CountryCount > b.CountryCount
	}
	if a.ArticleCount != b.ArticleCount {
		return a.ArticleCount > b.ArticleCount
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func dateFirstLess(a, b Rankable) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	if a.CountryCount != b.CountryCount {
		return a.CountryCount > b.CountryCount
	}
	return a.ArticleCount > b.ArticleCount
}
