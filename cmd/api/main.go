package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/y1kuo/liveboard/internal/config"
	"github.com/y1kuo/liveboard/internal/db"
	"github.com/y1kuo/liveboard/internal/httpapi"
	"github.com/y1kuo/liveboard/internal/store/redisstore"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("connect event store: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate event tables: %v", err)
	}

	var rds *redisstore.Store
	if cfg.RedisAddr != "" {
		rds = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rds.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unreachable, stats cache disabled")
			rds = nil
		}
		cancel()
	}

	gin.SetMode(cfg.GinMode)
	r := httpapi.NewRouter(gdb, log, rds)

	log.Infof("api listening on :%d", cfg.ServerPort)
	if err := r.Run(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil {
		log.Fatalf("server: %v", err)
	}
}
