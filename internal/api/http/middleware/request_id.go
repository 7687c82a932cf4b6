package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestID gives every request a stable id: the incoming X-Request-Id
// header when present, a fresh one otherwise. The id is stored in the
// gin context under "request_id", echoed back in the response header,
// and stamped on the access log line together with status and latency.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader("X-Request-Id"))
		if rid == "" {
			rid = newRequestID()
		}

		c.Set("request_id", rid)
		c.Writer.Header().Set("X-Request-Id", rid)

		start := time.Now()
		c.Next()

		log.Printf("[req] id=%s method=%s path=%s status=%d latency=%s",
			rid, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func newRequestID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		// entropy failure: a timestamp id still identifies the request
		return time.Now().Format("20060102T150405.000000000")
	}
	return hex.EncodeToString(b)
}
