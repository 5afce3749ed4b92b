package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/y1kuo/liveboard/internal/common"
)

func (h *Handler) GetUnifiedTransactions(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	limit := limitQuery(c, 100, 500)

	txns, err := h.Transactions.Unified(c.Request.Context(), roomID, limit)
	if err != nil {
		h.Log.WithError(err).Error("transaction query failed")
		common.Fail(c, http.StatusInternalServerError, 50007, "failed to merge transactions")
		return
	}
	common.OK(c, txns)
}

// Recent event lists back the dashboard panels. Bounds are optional; an
// absent bound leaves that side of the range open.

func (h *Handler) GetRecentDanmaku(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	start, end := optionalRange(c)
	rows, err := h.Repo.RecentDanmaku(c.Request.Context(), roomID, start, end, limitQuery(c, 50, 500))
	if err != nil {
		h.Log.WithError(err).Error("danmaku query failed")
		common.Fail(c, http.StatusInternalServerError, 50008, "failed to list danmaku")
		return
	}
	common.OK(c, rows)
}

func (h *Handler) GetRecentGifts(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	start, end := optionalRange(c)
	rows, err := h.Repo.RecentGifts(c.Request.Context(), roomID, start, end, limitQuery(c, 50, 500))
	if err != nil {
		h.Log.WithError(err).Error("gift query failed")
		common.Fail(c, http.StatusInternalServerError, 50009, "failed to list gifts")
		return
	}
	common.OK(c, rows)
}

func (h *Handler) GetRecentGuards(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	start, end := optionalRange(c)
	rows, err := h.Repo.RecentGuards(c.Request.Context(), roomID, start, end, limitQuery(c, 20, 500))
	if err != nil {
		h.Log.WithError(err).Error("guard query failed")
		common.Fail(c, http.StatusInternalServerError, 50010, "failed to list guards")
		return
	}
	common.OK(c, rows)
}

func (h *Handler) GetRecentSuperChats(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	start, end := optionalRange(c)
	rows, err := h.Repo.RecentSuperChats(c.Request.Context(), roomID, start, end, limitQuery(c, 20, 500))
	if err != nil {
		h.Log.WithError(err).Error("super chat query failed")
		common.Fail(c, http.StatusInternalServerError, 50011, "failed to list super chats")
		return
	}
	common.OK(c, rows)
}
