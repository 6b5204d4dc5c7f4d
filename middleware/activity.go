package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stayloop/rewards/points"
	"github.com/stayloop/rewards/utils"
)

const activityKeyTTL = 48 * time.Hour

// ActivityRecorder marks the authenticated user active for the current day in
// a Redis set. Best-effort; skipped entirely when Redis is unavailable.
func ActivityRecorder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}
		userID := c.GetUint(ContextUserIDKey)
		if userID == 0 {
			return
		}
		rc := utils.GetRedis()
		if rc == nil {
			return
		}

		key := fmt.Sprintf("active:%s", points.DayKey(time.Now()))
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.SAdd(ctx, key, userID).Err(); err != nil {
			return
		}
		_ = rc.Expire(ctx, key, activityKeyTTL).Err()
	}
}
