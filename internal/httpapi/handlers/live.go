package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/y1kuo/liveboard/internal/common"
)

func (h *Handler) GetLiveSessions(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	start, end := timeRange(c)
	limit := limitQuery(c, 50, 200)

	sessions, err := h.LiveSessions.Sessions(c.Request.Context(), roomID, start, end, limit)
	if err != nil {
		h.Log.WithError(err).Error("live session query failed")
		common.Fail(c, http.StatusInternalServerError, 50006, "failed to reconstruct sessions")
		return
	}
	common.OK(c, sessions)
}
