package models

import "time"

// LegacyTopic is a daily clustered topic of the first product generation.
type LegacyTopic struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	Title            string     `json:"title"`
	TitleKr          string     `json:"title_kr"`
	Headline         string     `json:"headline"`
	Summary          string     `json:"summary"`
	Date             string     `json:"date" gorm:"index"`
	CountryCount     int        `json:"country_count"`
	ThumbnailURL     string     `json:"thumbnail_url"`
	DivergenceScore  *float64   `json:"divergence_score"`
	MergedFromTopics StringList `json:"merged_from_topics"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (LegacyTopic) TableName() string { return "mvp_topics" }

// Day is the topic date truncated to YYYY-MM-DD.
func (t LegacyTopic) Day() string { return DayOf(t.Date) }

type LegacyArticle struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	TitleKr     string    `json:"title_kr"`
	URL         string    `json:"url" gorm:"column:url"`
	Source      string    `json:"source"`
	CountryCode string    `json:"country_code"`
	PublishedAt time.Time `json:"published_at"`
	Stance      string    `json:"stance"`
	StanceScore *float64  `json:"stance_score"`
	TopicID     string    `json:"topic_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (LegacyArticle) TableName() string { return "mvp_articles" }

// TopicCountryStat holds the stance counts of one country for one topic.
type TopicCountryStat struct {
	ID              int64    `json:"id" gorm:"primaryKey"`
	TopicID         string   `json:"topic_id" gorm:"index"`
	CountryCode     string   `json:"country_code"`
	SupportiveCount int      `json:"supportive_count"`
	FactualCount    int      `json:"factual_count"`
	CriticalCount   int      `json:"critical_count"`
	AvgScore        *float64 `json:"avg_score"`
	Summary         string   `json:"summary"`
}

func (TopicCountryStat) TableName() string { return "mvp_topic_country_stats" }

// TopicHistory is one daily snapshot in a topic's evolution chain.
type TopicHistory struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	TopicID        string     `json:"topic_id" gorm:"index"`
	Date           string     `json:"date" gorm:"index"`
	ParentTopicID  *int64     `json:"parent_topic_id"`
	DriftScore     *float64   `json:"drift_score"`
	Intensity      *float64   `json:"intensity"`
	Category       *int       `json:"category"`
	IsNewTopic     bool       `json:"is_new_topic"`
	Status         string     `json:"status"`
	TitleEn        string     `json:"title_en"`
	TitleKr        string     `json:"title_kr"`
	ArticleCount   int        `json:"article_count"`
	CountryCount   int        `json:"country_count"`
	Countries      StringList `json:"countries"`
	AvgStanceScore *float64   `json:"avg_stance_score"`
}

func (TopicHistory) TableName() string { return "mvp_topic_history" }

// DayOf truncates a date or timestamp string to its YYYY-MM-DD prefix.
func DayOf(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
