package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/y1kuo/liveboard/internal/common"
	"github.com/y1kuo/liveboard/internal/httpapi/handlers"
	"github.com/y1kuo/liveboard/internal/httpapi/middleware"
	"github.com/y1kuo/liveboard/internal/store/redisstore"
)

func NewRouter(db *gorm.DB, log *logrus.Logger, rds *redisstore.Store) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, log, rds)

	r.GET("/ping", h.Ping)

	room := r.Group("/api/rooms/:room_id")
	room.GET("/stats", h.GetStats)
	room.GET("/stats/trend", h.GetDanmakuTrend)
	room.GET("/top/danmaku", h.GetTopDanmakuUsers)
	room.GET("/top/gifts", h.GetTopGiftUsers)
	room.GET("/blindbox", h.GetBlindboxStats)
	room.GET("/sessions", h.GetLiveSessions)
	room.GET("/transactions", h.GetUnifiedTransactions)
	room.GET("/danmaku", h.GetRecentDanmaku)
	room.GET("/gifts", h.GetRecentGifts)
	room.GET("/guards", h.GetRecentGuards)
	room.GET("/superchats", h.GetRecentSuperChats)

	return r
}
