package middleware

import (
	"os"
	"sync"
	"time"

	"github.com/StrixzIV/adv-compro-finals/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRequestLogMiddleware appends one line per request to the plain-text
// log the dashboard aggregator tails. The line shape is fixed, the parser
// in service.ReadRequestStats matches it literally
func NewRequestLogMiddleware(path string) gin.HandlerFunc {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		zap.L().Error("Failed to open request log, request stats will stay empty", zap.Error(err))

		return func(c *gin.Context) {
			c.Next()
		}
	}

	var mu sync.Mutex

	return func(c *gin.Context) {
		line := service.RequestLogLine(time.Now(), c.Request.URL.Path, c.Request.Method)

		mu.Lock()
		_, err := f.WriteString(line + "\n")
		mu.Unlock()

		if err != nil {
			zap.L().Warn("Failed to write request log line", zap.Error(err))
		}

		c.Next()
	}
}
