package models

import (
	"time"

	"news-spectrum/stance"
)

// GlobalInsight is one card of the global insights listing.
type GlobalInsight struct {
	ID            string              `json:"id"`
	TitleKo       string              `json:"title_ko"`
	TitleEn       string              `json:"title_en"`
	IntroKo       string              `json:"intro_ko"`
	IntroEn       string              `json:"intro_en"`
	Category      string              `json:"category,omitempty"`
	ThumbnailURL  *string             `json:"thumbnail_url"`
	ArticleCount  int                 `json:"article_count"`
	CountryCount  int                 `json:"country_count"`
	Countries     []string            `json:"countries"`
	Keywords      []string            `json:"keywords,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Rank          *int                `json:"rank"`
	IsPinned      bool                `json:"is_pinned"`
	HeroImageURL  *string             `json:"hero_image_url"`
	HotTopicBadge *string             `json:"hot_topic_badge"`
	Stances       []stance.Entry      `json:"stances"`
	Distribution  stance.Distribution `json:"distribution"`
	X             *float64            `json:"x"`
	Y             *float64            `json:"y"`
}

// Perspective is one article's stance on a megatopic.
type Perspective struct {
	CountryCode string `json:"country_code"`
	Stance      string `json:"stance"`
	OneLinerKo  string `json:"one_liner_ko"`
	SourceLink  string `json:"source_link"`
	SourceName  string `json:"source_name"`
	FlagEmoji   string `json:"flag_emoji,omitempty"`
}

type RelatedArticle struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Source        string    `json:"source"`
	CountryCode   string    `json:"country_code"`
	TitleOriginal string    `json:"title_original"`
	TitleKo       string    `json:"title_ko"`
	PublishedAt   time.Time `json:"published_at"`
}

// VsCard is the detail view of a megatopic comparing country perspectives.
type VsCard struct {
	TopicID         string                       `json:"topic_id"`
	Title           string                       `json:"title"`
	TitleEn         string                       `json:"title_en"`
	IntroKo         string                       `json:"intro_ko"`
	IntroEn         string                       `json:"intro_en"`
	ThumbnailURL    *string                      `json:"thumbnail_url"`
	AISummary       *string                      `json:"ai_summary"`
	EditorComment   *string                      `json:"editor_comment"`
	Category        *string                      `json:"category"`
	ArticleCount    int                          `json:"article_count"`
	CountryCount    int                          `json:"country_count"`
	Countries       []string                     `json:"countries"`
	Keywords        []string                     `json:"keywords"`
	Stances         []Perspective                `json:"stances"`
	Perspectives    []Perspective                `json:"perspectives"`
	RelatedArticles []RelatedArticle             `json:"related_articles"`
	Articles        []Article                    `json:"articles"`
	Distribution    stance.Distribution          `json:"distribution"`
	ByCountry       []stance.CountryDistribution `json:"by_country"`
}

// LocalTrend is one tile of a country's trends listing.
type LocalTrend struct {
	TopicID      string              `json:"topic_id"`
	Title        string              `json:"title"`
	Keyword      string              `json:"keyword"`
	Keywords     []string            `json:"keywords"`
	ArticleCount int                 `json:"article_count"`
	DisplayLevel int                 `json:"display_level"`
	MediaType    string              `json:"media_type"`
	MediaURL     *string             `json:"media_url"`
	Stances      []stance.Entry      `json:"stances"`
	Distribution stance.Distribution `json:"distribution"`
	Category     *string             `json:"category"`
	IsGlobal     bool                `json:"is_global"`
	Summary      string              `json:"summary"`
	CreatedAt    time.Time           `json:"created_at"`
}

type LocalTrendPage struct {
	CountryCode string       `json:"country_code"`
	Topics      []LocalTrend `json:"topics"`
	Page        int          `json:"page"`
	TotalCount  int          `json:"total_count"`
	Limit       int          `json:"limit"`
	HasNextPage bool         `json:"hasNextPage"`
}

type LocalArticle struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	TitleKo       string    `json:"title_ko"`
	TitleOriginal string    `json:"title_original"`
	CountryCode   string    `json:"country_code"`
	Source        string    `json:"source"`
	PublishedAt   time.Time `json:"published_at"`
	URL           string    `json:"url"`
	GlobalTopicID *string   `json:"global_topic_id,omitempty"`
}

// LocalTopicDetail is the detail view of one local topic.
type LocalTopicDetail struct {
	TopicID       string              `json:"topic_id"`
	Title         string              `json:"title"`
	Keyword       string              `json:"keyword"`
	ArticleCount  int                 `json:"article_count"`
	DisplayLevel  int                 `json:"display_level"`
	MediaType     string              `json:"media_type"`
	MediaURL      *string             `json:"media_url"`
	Stances       []Perspective       `json:"stances"`
	Distribution  stance.Distribution `json:"distribution"`
	Keywords      []string            `json:"keywords,omitempty"`
	Category      *string             `json:"category"`
	CountryCode   *string             `json:"country_code"`
	GlobalTopicID *string             `json:"global_topic_id,omitempty"`
	AISummary     *string             `json:"ai_summary"`
	Articles      []LocalArticle      `json:"articles"`
}

// DailyTopic is a legacy daily topic with its article aggregation.
type DailyTopic struct {
	LegacyTopic
	ArticleCount      int                `json:"article_count"`
	CountriesInvolved []string           `json:"countries_involved"`
	Stats             []TopicCountryStat `json:"stats"`
}

type DailyTopicsMeta struct {
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DailyTopics struct {
	Meta DailyTopicsMeta `json:"meta"`
	Data []DailyTopic    `json:"data"`
}

// TopicDetail is a legacy daily topic with per-country stance statistics.
type TopicDetail struct {
	LegacyTopic
	Stats             []TopicCountryStat  `json:"stats"`
	Articles          []LegacyArticle     `json:"articles"`
	CountriesInvolved []string            `json:"countries_involved"`
	ArticleCount      int                 `json:"article_count"`
	TotalSupportive   int                 `json:"total_supportive"`
	TotalFactual      int                 `json:"total_factual"`
	TotalCritical     int                 `json:"total_critical"`
	Distribution      stance.Distribution `json:"distribution"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

type ArticlePage struct {
	Data       []LegacyArticle `json:"data"`
	Pagination Pagination      `json:"pagination"`
}
