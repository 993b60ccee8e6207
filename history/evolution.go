package history

import "news-spectrum/models"

const (
	breakingDrift = 0.15
	evolvingDrift = 0.05
)

// Categories are the intensity tiers the pipeline assigns to snapshots.
var Categories = []int{1, 2, 3, 4, 5}

type Summary struct {
	Total     int      `json:"total"`
	New       int      `json:"new"`
	Continued int      `json:"continued"`
	Breaking  int      `json:"breaking"`
	Evolving  int      `json:"evolving"`
	Ongoing   int      `json:"ongoing"`
	AvgDrift  *float64 `json:"avg_drift"`
}

type CategoryCount struct {
	Category int `json:"category"`
	Count    int `json:"count"`
}

type EvolvedTopic struct {
	ID             string            `json:"id"`
	TitleEn        string            `json:"title_en"`
	TitleKr        string            `json:"title_kr"`
	IsNew          bool              `json:"is_new"`
	DriftScore     *float64          `json:"drift_score"`
	Intensity      *float64          `json:"intensity"`
	Category       *int              `json:"category"`
	Status         string            `json:"status"`
	ArticleCount   int               `json:"article_count"`
	CountryCount   int               `json:"country_count"`
	Countries      models.StringList `json:"countries"`
	AvgStanceScore *float64          `json:"avg_stance_score"`
}

// Evolution describes the snapshots recorded on one day.
type Evolution struct {
	Date                 string          `json:"date"`
	Summary              Summary         `json:"summary"`
	CategoryDistribution []CategoryCount `json:"category_distribution"`
	Topics               []EvolvedTopic  `json:"topics"`
}

// Badge names the drift tier of a continued topic: "breaking", "evolving"
// or "ongoing". New topics and topics without a drift score have no badge.
func Badge(s models.TopicHistory) string {
	if s.IsNewTopic || s.DriftScore == nil || *s.DriftScore == 0 {
		return ""
	}
	switch d := *s.DriftScore; {
	case d > breakingDrift:
		return "breaking"
	case d > evolvingDrift:
		return "evolving"
	default:
		return "ongoing"
	}
}

// Summarize aggregates the snapshots of one day.
func Summarize(date string, records []models.TopicHistory) Evolution {
	ev := Evolution{
		Date:                 date,
		CategoryDistribution: make([]CategoryCount, 0, len(Categories)),
		Topics:               make([]EvolvedTopic, 0, len(records)),
	}

	var driftSum float64
	var drifts int
	for _, r := range records {
		ev.Summary.Total++
		if r.IsNewTopic {
			ev.Summary.New++
		} else {
			ev.Summary.Continued++
		}
		switch Badge(r) {
		case "breaking":
			ev.Summary.Breaking++
		case "evolving":
			ev.Summary.Evolving++
		case "ongoing":
			ev.Summary.Ongoing++
		}
		if r.DriftScore != nil {
			drifts++
			driftSum += *r.DriftScore
		}
		ev.Topics = append(ev.Topics, EvolvedTopic{
			ID:             r.TopicID,
			TitleEn:        r.TitleEn,
			TitleKr:        r.TitleKr,
			IsNew:          r.IsNewTopic,
			DriftScore:     r.DriftScore,
			Intensity:      r.Intensity,
			Category:       r.Category,
			Status:         r.Status,
			ArticleCount:   r.ArticleCount,
			CountryCount:   r.CountryCount,
			Countries:      r.Countries,
			AvgStanceScore: r.AvgStanceScore,
		})
	}
	if drifts > 0 {
		ev.Summary.AvgDrift = ptr(round4(driftSum / float64(drifts)))
	}

	for _, c := range Categories {
		n := 0
		for _, r := range records {
			if r.Category != nil && *r.Category == c {
				n++
			}
		}
		ev.CategoryDistribution = append(ev.CategoryDistribution, CategoryCount{Category: c, Count: n})
	}
	return ev
}
