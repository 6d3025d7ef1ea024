package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleMutation(t *testing.T) {
	m := New()
	m.SaleMutation("create", OutcomeOK)
	m.SaleMutation("create", OutcomeInsufficient)
	m.SaleMutation("update", OutcomeInsufficient)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.saleMutations.WithLabelValues("create", OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.insufficientStock))
}

func TestHandlerExportsRequests(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/sales", http.MethodPost, http.StatusCreated, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `resale_http_requests_total{method="POST",route="/api/sales",status="201"} 1`), body)
	assert.Contains(t, body, "resale_http_request_duration_seconds_bucket")
}
