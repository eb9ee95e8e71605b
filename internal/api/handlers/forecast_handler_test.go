// internal/api/handlers/forecast_handler_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type recordedRun struct {
	storeID string
	horizon int
}

type fakePipeline struct {
	runs chan recordedRun
}

func (f *fakePipeline) RunPipeline(_ context.Context, storeID string, horizon int) error {
	f.runs <- recordedRun{storeID: storeID, horizon: horizon}
	return nil
}

func runForecastRouter(pipeline *fakePipeline) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewForecastHandler(nil, nil, pipeline)
	router.POST("/run-forecast", handler.RunForecast)
	return router
}

func TestRunForecastBackground(t *testing.T) {
	pipeline := &fakePipeline{runs: make(chan recordedRun, 1)}
	router := runForecastRouter(pipeline)

	body := `{"store_id":"STORE001","forecast_horizon":14,"background_tasks":true}`
	req := httptest.NewRequest(http.MethodPost, "/run-forecast", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusAccepted, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"processing"`) {
		t.Errorf("body missing processing status: %s", rec.Body.String())
	}

	select {
	case run := <-pipeline.runs:
		if run.storeID != "STORE001" || run.horizon != 14 {
			t.Errorf("pipeline ran with store %q horizon %d", run.storeID, run.horizon)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline was never dispatched")
	}
}

func TestRunForecastRejectsBadHorizon(t *testing.T) {
	pipeline := &fakePipeline{runs: make(chan recordedRun, 1)}
	router := runForecastRouter(pipeline)

	body := `{"store_id":"STORE001","forecast_horizon":31,"background_tasks":true}`
	req := httptest.NewRequest(http.MethodPost, "/run-forecast", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	select {
	case <-pipeline.runs:
		t.Fatal("pipeline dispatched for an invalid horizon")
	case <-time.After(100 * time.Millisecond):
	}
}
