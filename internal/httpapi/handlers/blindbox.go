package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/y1kuo/liveboard/internal/common"
)

func (h *Handler) GetBlindboxStats(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	start, end := timeRange(c)
	limit := limitQuery(c, 200, 1000)
	uname := c.Query("uname")

	stats, err := h.Blindbox.Stats(c.Request.Context(), roomID, start, end, limit, uname)
	if err != nil {
		h.Log.WithError(err).Error("blindbox query failed")
		common.Fail(c, http.StatusInternalServerError, 50005, "failed to compute blindbox stats")
		return
	}
	common.OK(c, stats)
}
