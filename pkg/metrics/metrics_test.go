package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordOutcome("answered", time.Second)
		m.RecordLLMCall("openai", PurposeGenerate, time.Second, "")
		m.RecordQuery(time.Second, nil)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordOutcome(t *testing.T) {
	m := New()
	m.RecordOutcome("greeting", time.Millisecond)
	m.RecordOutcome("greeting", time.Millisecond)
	m.RecordOutcome("answered", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pipelineOutcomes.WithLabelValues("greeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pipelineOutcomes.WithLabelValues("answered")))
}

func TestRecordLLMCall(t *testing.T) {
	m := New()
	m.RecordLLMCall("openai", PurposeGenerate, time.Second, "")
	m.RecordLLMCall("openai", PurposeFormat, time.Second, "timeout")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("openai", PurposeGenerate, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("openai", PurposeFormat, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmErrors.WithLabelValues("openai", "timeout")))
}

func TestRecordQuery(t *testing.T) {
	m := New()
	m.RecordQuery(time.Millisecond, nil)
	m.RecordQuery(time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.datastoreQueries.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.datastoreQueries.WithLabelValues("error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordOutcome("no_results", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `eventbot_pipeline_outcomes_total{outcome="no_results"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
