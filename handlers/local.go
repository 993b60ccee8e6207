package handlers

import (
	"news-spectrum/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) LocalTrends(c *gin.Context) {
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 20)
	if !ok {
		return
	}

	res, err := h.Local.Trends(c.Request.Context(), services.TrendsQuery{
		Country: c.DefaultQuery("country", "KR"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res)
}

func (h *Handler) LocalTopic(c *gin.Context) {
	res, err := h.Local.Topic(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res)
}
