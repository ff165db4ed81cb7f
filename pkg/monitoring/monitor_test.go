package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSubmission(t *testing.T) {
	before := testutil.ToFloat64(AssessmentSubmissions.WithLabelValues("quiz", "passed"))
	score := 85.0
	ObserveSubmission("quiz", "passed", &score)
	ObserveSubmission("quiz", "passed", nil)

	got := testutil.ToFloat64(AssessmentSubmissions.WithLabelValues("quiz", "passed"))
	if got-before != 2 {
		t.Fatalf("submissions counter: want=+2 got=+%v", got-before)
	}
}

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/health", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	got := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/health", "200"))
	if got-before != 1 {
		t.Fatalf("request counter: want=+1 got=+%v", got-before)
	}
}
