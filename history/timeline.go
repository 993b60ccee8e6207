// Package history walks a topic's daily snapshot chain and summarizes how
// topics evolve from one day to the next.
package history

import (
	"context"
	"math"

	"news-spectrum/models"
)

// DefaultMaxDepth bounds how many parents BuildTimeline follows.
const DefaultMaxDepth = 30

// FetchFunc loads a snapshot by id. A nil snapshot or an error ends the walk.
type FetchFunc func(ctx context.Context, id int64) (*models.TopicHistory, error)

type Insights struct {
	MaxDrift     *float64 `json:"max_drift"`
	AvgDrift     *float64 `json:"avg_drift"`
	MaxIntensity *float64 `json:"max_intensity"`
	PeakCategory *int     `json:"peak_category"`
}

// Timeline is a snapshot chain ordered oldest first.
type Timeline struct {
	Snapshots []models.TopicHistory
	Insights  Insights
}

// Empty is the timeline of a topic without any tracked history.
func Empty() Timeline {
	return Timeline{Snapshots: []models.TopicHistory{}}
}

// Len is the number of snapshots.
func (t Timeline) Len() int { return len(t.Snapshots) }

// FirstSeen is the date of the oldest snapshot, or "" when empty.
func (t Timeline) FirstSeen() string {
	if len(t.Snapshots) == 0 {
		return ""
	}
	return t.Snapshots[0].Date
}

// LastSeen is the date of the newest snapshot, or "" when empty.
func (t Timeline) LastSeen() string {
	if len(t.Snapshots) == 0 {
		return ""
	}
	return t.Snapshots[len(t.Snapshots)-1].Date
}

// BuildTimeline follows parent pointers back from latest, fetching at most
// maxDepth parents. The walk stops at a nil parent pointer, a failed or
// empty fetch, an already visited snapshot, a cancelled context, or when the
// depth is exhausted; whatever was gathered is returned.
func BuildTimeline(ctx context.Context, latest models.TopicHistory, fetch FetchFunc, maxDepth int) Timeline {
	chain := []models.TopicHistory{latest}
	visited := map[int64]bool{latest.ID: true}
	current := latest

	for i := 0; i < maxDepth; i++ {
		if current.ParentTopicID == nil || ctx.Err() != nil {
			break
		}
		parent, err := fetch(ctx, *current.ParentTopicID)
		if err != nil || parent == nil || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		chain = append(chain, *parent)
		current = *parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return Timeline{Snapshots: chain, Insights: summarize(chain)}
}

func summarize(chain []models.TopicHistory) Insights {
	var ins Insights
	if len(chain) == 0 {
		return ins
	}

	var (
		drifts    int
		driftSum  float64
		driftMax  = math.Inf(-1)
		intensity = math.Inf(-1)
		peak      = math.MinInt
	)
	for _, s := range chain {
		if s.DriftScore != nil {
			drifts++
			driftSum += *s.DriftScore
			driftMax = math.Max(driftMax, *s.DriftScore)
		}
		v := 0.0
		if s.Intensity != nil {
			v = *s.Intensity
		}
		intensity = math.Max(intensity, v)

		c := 1
		if s.Category != nil && *s.Category != 0 {
			c = *s.Category
		}
		peak = max(peak, c)
	}

	if drifts > 0 {
		ins.MaxDrift = ptr(round4(driftMax))
		ins.AvgDrift = ptr(round4(driftSum / float64(drifts)))
	}
	ins.MaxIntensity = ptr(intensity)
	ins.PeakCategory = ptr(peak)
	return ins
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func ptr[T any](v T) *T { return &v }
