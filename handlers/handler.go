package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"news-spectrum/history"
	"news-spectrum/models"
	"news-spectrum/services"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// DataSourceHeader tells clients whether a payload is live or sample data.
const DataSourceHeader = "X-Data-Source"

type GlobalReader interface {
	List(ctx context.Context) (services.Result[[]models.GlobalInsight], error)
	Card(ctx context.Context, id string) (services.Result[models.VsCard], error)
}

type LocalReader interface {
	Trends(ctx context.Context, q services.TrendsQuery) (services.Result[models.LocalTrendPage], error)
	Topic(ctx context.Context, id string) (services.Result[models.LocalTopicDetail], error)
}

type TopicReader interface {
	Topics(ctx context.Context, q services.TopicsQuery) (models.DailyTopics, error)
	Topic(ctx context.Context, id string, includeArticles bool) (models.TopicDetail, error)
	Articles(ctx context.Context, q services.ArticlesQuery) (models.ArticlePage, error)
}

type TimelineReader interface {
	Timeline(ctx context.Context, topicID string) (history.Timeline, error)
	Evolution(ctx context.Context, date string) (history.Evolution, error)
}

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the HTTP API. A nil DB means the server runs without a
// database.
type Handler struct {
	Global   GlobalReader
	Local    LocalReader
	Topics   TopicReader
	Timeline TimelineReader
	DB       Pinger
	Log      *log.Logger
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.GET("/global/insights", h.GlobalInsights)
		api.GET("/global/insights/:id", h.GlobalInsight)

		api.GET("/local/trends", h.LocalTrends)
		api.GET("/local/topics/:id", h.LocalTopic)

		api.GET("/topics", h.DailyTopics)
		api.GET("/topics/evolution", h.Evolution)
		api.GET("/topics/:id", h.DailyTopic)
		api.GET("/topics/:id/articles", h.TopicArticles)
		api.GET("/topics/:id/timeline", h.TopicTimeline)
	}
}

func (h *Handler) Health(c *gin.Context) {
	connected := false
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			h.Log.Warn("database ping failed", "err", err)
		} else {
			connected = true
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": connected})
}

// fail writes the error response matching err.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not configured"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	default:
		h.Log.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "message": err.Error()})
	}
}

func respond[T any](c *gin.Context, res services.Result[T]) {
	c.Header(DataSourceHeader, string(res.Source))
	c.JSON(http.StatusOK, res.Data)
}

// intQuery reads an optional integer query parameter. Missing values yield
// def; malformed ones are reported as a 400.
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key})
		return 0, false
	}
	return v, true
}
