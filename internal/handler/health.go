package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DLQCounter reports how many jobs of a queue ended in its dead letter list.
type DLQCounter interface {
	DLQLength(ctx context.Context, queue string) (int64, error)
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// A nil rdb reports redis as "disabled" without failing the check. Dead
// letters are informative only: the service stays healthy with a backlog.
func Health(db *gorm.DB, rdb *redis.Client, dlq DLQCounter, emailQueue string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		if db == nil {
			dbStatus = "error"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if dlq != nil && redisStatus == "connected" {
			if n, err := dlq.DLQLength(ctx, emailQueue); err == nil {
				body["email_dlq"] = n
			}
		}
		c.JSON(status, body)
	}
}
