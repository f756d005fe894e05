package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func newRateLimitedRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set(string(userIDKey), user)
		}
		c.Next()
	})
	r.Use(RateLimit(limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: limit})))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func get(r *gin.Engine, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.7:5000"
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_PerOperator(t *testing.T) {
	r := newRateLimitedRouter(2)

	assert.Equal(t, http.StatusNoContent, get(r, "cashier-1").Code)
	w := get(r, "cashier-1")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "cashier-1").Code)

	// Same address, different operator.
	assert.Equal(t, http.StatusNoContent, get(r, "cashier-2").Code)
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	r := newRateLimitedRouter(1)

	assert.Equal(t, http.StatusNoContent, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
	assert.Equal(t, http.StatusNoContent, get(r, "cashier-1").Code)
}
