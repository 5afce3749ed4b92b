package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/y1kuo/liveboard/internal/analytics"
	"github.com/y1kuo/liveboard/internal/common"
)

const statsCacheTTL = 10 * time.Second

func (h *Handler) GetStats(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	start, end := timeRange(c)

	cacheKey := fmt.Sprintf("liveboard:stats:%d:%d:%d", roomID, start, end)
	if h.Redis != nil {
		var cached analytics.DashboardStats
		if hit, err := h.Redis.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
			common.OK(c, cached)
			return
		}
	}

	stats, err := h.Analytics.Stats(c.Request.Context(), roomID, start, end)
	if err != nil {
		h.Log.WithError(err).Error("stats query failed")
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to compute stats")
		return
	}

	if h.Redis != nil {
		if err := h.Redis.SetJSON(c.Request.Context(), cacheKey, stats, statsCacheTTL); err != nil {
			h.Log.WithError(err).Warn("stats cache write failed")
		}
	}
	common.OK(c, stats)
}

func (h *Handler) GetDanmakuTrend(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	points, err := h.Analytics.DanmakuTrend(c.Request.Context(), roomID)
	if err != nil {
		h.Log.WithError(err).Error("trend query failed")
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to compute trend")
		return
	}
	common.OK(c, points)
}

func (h *Handler) GetTopDanmakuUsers(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	start, end := timeRange(c)
	users, err := h.Analytics.TopDanmakuUsers(c.Request.Context(), roomID, start, end)
	if err != nil {
		h.Log.WithError(err).Error("top danmaku query failed")
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to compute leaderboard")
		return
	}
	common.OK(c, users)
}

func (h *Handler) GetTopGiftUsers(c *gin.Context) {
	roomID, ok := roomIDFromPath(c)
	if !ok {
		return
	}
	start, end := timeRange(c)
	users, err := h.Analytics.TopGiftUsers(c.Request.Context(), roomID, start, end)
	if err != nil {
		h.Log.WithError(err).Error("top gift query failed")
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to compute leaderboard")
		return
	}
	common.OK(c, users)
}
