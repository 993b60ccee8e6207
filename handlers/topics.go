package handlers

import (
	"net/http"

	"news-spectrum/history"
	"news-spectrum/models"
	"news-spectrum/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) DailyTopics(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 500)
	if !ok {
		return
	}

	topics, err := h.Topics.Topics(c.Request.Context(), services.TopicsQuery{
		Date:  c.Query("date"),
		Limit: limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

func (h *Handler) DailyTopic(c *gin.Context) {
	include := c.DefaultQuery("include_articles", "true") != "false"

	topic, err := h.Topics.Topic(c.Request.Context(), c.Param("id"), include)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": topic})
}

func (h *Handler) TopicArticles(c *gin.Context) {
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 20)
	if !ok {
		return
	}

	articles, err := h.Topics.Articles(c.Request.Context(), services.ArticlesQuery{
		TopicID: c.Param("id"),
		Page:    page,
		Limit:   limit,
		Country: c.Query("country"),
		Stance:  c.Query("stance"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

type timelineResponse struct {
	TopicID        string                `json:"topic_id"`
	TimelineLength int                   `json:"timeline_length"`
	FirstSeen      *string               `json:"first_seen"`
	LastSeen       *string               `json:"last_seen"`
	Insights       history.Insights      `json:"insights"`
	Timeline       []models.TopicHistory `json:"timeline"`
}

func (h *Handler) TopicTimeline(c *gin.Context) {
	id := c.Param("id")
	tl, err := h.Timeline.Timeline(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := timelineResponse{
		TopicID:        id,
		TimelineLength: tl.Len(),
		Insights:       tl.Insights,
		Timeline:       tl.Snapshots,
	}
	if tl.Len() > 0 {
		first, last := tl.FirstSeen(), tl.LastSeen()
		resp.FirstSeen, resp.LastSeen = &first, &last
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Evolution(c *gin.Context) {
	evo, err := h.Timeline.Evolution(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, evo)
}
