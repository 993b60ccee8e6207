package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GlobalInsights(c *gin.Context) {
	res, err := h.Global.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res)
}

// GlobalInsight serves the VS card of one megatopic.
func (h *Handler) GlobalInsight(c *gin.Context) {
	res, err := h.Global.Card(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res)
}
