package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/y1kuo/liveboard/internal/analytics"
	"github.com/y1kuo/liveboard/internal/blindbox"
	"github.com/y1kuo/liveboard/internal/common"
	"github.com/y1kuo/liveboard/internal/event"
	"github.com/y1kuo/liveboard/internal/livesession"
	"github.com/y1kuo/liveboard/internal/store/redisstore"
	"github.com/y1kuo/liveboard/internal/transaction"
)

type Handler struct {
	Log   *logrus.Logger
	Redis *redisstore.Store // nil disables caching

	Repo         *event.Repo
	Analytics    *analytics.Service
	Blindbox     *blindbox.Service
	LiveSessions *livesession.Service
	Transactions *transaction.Service
}

func NewHandler(db *gorm.DB, log *logrus.Logger, rds *redisstore.Store) *Handler {
	repo := event.NewRepo(db)
	return &Handler{
		Log:          log,
		Redis:        rds,
		Repo:         repo,
		Analytics:    analytics.NewService(repo),
		Blindbox:     blindbox.NewService(repo),
		LiveSessions: livesession.NewService(repo),
		Transactions: transaction.NewService(repo),
	}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

func roomIDFromPath(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil || id <= 0 {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid room_id")
		return 0, false
	}
	return id, true
}

// timeRange reads optional start_ts/end_ts (ms). The engines always need
// explicit bounds, so missing values default here: start of today local
// time, and now.
func timeRange(c *gin.Context) (start, end int64) {
	now := time.Now()
	y, m, d := now.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, now.Location()).UnixMilli()
	end = now.UnixMilli()

	if v := c.Query("start_ts"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			start = n
		}
	}
	if v := c.Query("end_ts"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			end = n
		}
	}
	return start, end
}

// optionalRange is like timeRange but leaves absent bounds open (0).
func optionalRange(c *gin.Context) (start, end int64) {
	if v := c.Query("start_ts"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			start = n
		}
	}
	if v := c.Query("end_ts"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			end = n
		}
	}
	return start, end
}

func limitQuery(c *gin.Context, def, max int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
