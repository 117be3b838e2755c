package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBalanceOperation(t *testing.T) {
	before := testutil.ToFloat64(balanceOperations.WithLabelValues("deposit", "ok"))
	RecordBalanceOperation("deposit", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(balanceOperations.WithLabelValues("deposit", "ok")))

	before = testutil.ToFloat64(occRetries.WithLabelValues("withdraw"))
	RecordConflictRetry("withdraw")
	assert.Equal(t, before+1, testutil.ToFloat64(occRetries.WithLabelValues("withdraw")))
}

func TestHandlerExposesRequests(t *testing.T) {
	done := RequestStarted("GET", "/clients/:id")
	done(http.StatusOK)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `bankapi_http_requests_total{method="GET",path="/clients/:id",status="200"}`))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}
