package models

import (
	"time"

	"news-spectrum/stance"
)

// GlobalTopic is a megatopic spanning several countries.
type GlobalTopic struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	Headline      string     `json:"headline"`
	TitleKo       string     `json:"title_ko"`
	TitleEn       string     `json:"title_en"`
	Name          string     `json:"name"`
	IntroKo       string     `json:"intro_ko"`
	IntroEn       string     `json:"intro_en"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	AISummary     string     `json:"ai_summary" gorm:"column:ai_summary"`
	EditorComment string     `json:"editor_comment"`
	Category      string     `json:"category"`
	ArticleCount  int        `json:"article_count"`
	CountryCount  int        `json:"country_count"`
	Countries     StringList `json:"countries"`
	Keywords      StringList `json:"keywords"`
	Rank          *int       `json:"rank"`
	IsPinned      bool       `json:"is_pinned"`
	Stances       stance.Set `json:"stances" gorm:"serializer:json;type:text"`
	X             *float64   `json:"x"`
	Y             *float64   `json:"y"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (GlobalTopic) TableName() string { return "mvp2_global_topics" }

// LocalTopic is a topic scoped to one country.
type LocalTopic struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	CountryCode   string     `json:"country_code" gorm:"index"`
	Headline      string     `json:"headline"`
	TopicName     string     `json:"topic_name"`
	Keywords      StringList `json:"keywords"`
	ArticleCount  int        `json:"article_count"`
	DisplayLevel  *int       `json:"display_level"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	Stances       stance.Set `json:"stances" gorm:"serializer:json;type:text"`
	Category      string     `json:"category"`
	TopicIDs      StringList `json:"topic_ids" gorm:"column:topic_ids"`
	SourceCount   int        `json:"source_count"`
	CountryCount  int        `json:"country_count"`
	Summary       string     `json:"summary"`
	AISummary     string     `json:"ai_summary" gorm:"column:ai_summary"`
	GlobalTopicID *string    `json:"global_topic_id"`
	IsPublished   bool       `json:"is_published"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (LocalTopic) TableName() string { return "mvp2_topics" }

// Article is a collected news article linked to local and global topics.
type Article struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	TitleOriginal string    `json:"title_original"`
	TitleKo       string    `json:"title_ko"`
	URL           string    `json:"url" gorm:"column:url"`
	SourceName    string    `json:"source_name"`
	PublishedAt   time.Time `json:"published_at"`
	CountryCode   string    `json:"country_code"`
	GlobalTopicID *string   `json:"global_topic_id" gorm:"index"`
	LocalTopicID  *string   `json:"local_topic_id" gorm:"index"`
}

func (Article) TableName() string { return "mvp2_articles" }

// DisplayTitle prefers the Korean title.
func (a Article) DisplayTitle() string {
	if a.TitleKo != "" {
		return a.TitleKo
	}
	return a.TitleOriginal
}
