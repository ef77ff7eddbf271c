package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
)

// RateLimitByIP allows limit requests per client IP within window. Rejected
// requests get 429 with the usual JSON error body.
func RateLimitByIP(limit int, window time.Duration) gin.HandlerFunc {
	limiter := httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
		}),
	)

	return func(c *gin.Context) {
		allowed := false
		limiter(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			allowed = true
			c.Request = r
		})).ServeHTTP(c.Writer, c.Request)

		if !allowed {
			c.Abort()
			return
		}
		c.Next()
	}
}
