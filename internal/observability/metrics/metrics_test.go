package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallbiznis/gestoria/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := NewHTTPMetrics(config.Config{AppName: "gestoria", Environment: "test"})

	engine := gin.New()
	engine.Use(m.Middleware())
	engine.GET("/v1/invoices/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/v1/invoices/1", "/v1/invoices/2"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/invoices/:id", "200"))
	assert.Equal(t, float64(2), count)
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := NewHTTPMetrics(config.Config{})

	engine := gin.New()
	engine.Use(m.Middleware())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	engine.ServeHTTP(rec, req)

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, float64(1), count)
}
