package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

func TestReportDataQualityPostsRateLimitedAlert(t *testing.T) {
	var posts int
	var last map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		_ = json.NewDecoder(r.Body).Decode(&last)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	t.Setenv("DATA_QUALITY_ALERTS_ENABLED", "true")
	t.Setenv("DATA_QUALITY_ALERT_WEBHOOK_URL", srv.URL)
	t.Setenv("DATA_QUALITY_ALERT_MIN_INTERVAL_SECONDS", "3600")

	issues := []Issue{{Kind: IssueDuplicateText, Detail: "titles 0 and 1 identical"}}
	ReportDataQuality(context.Background(), logger.Nop(), "dq_test_stage", issues, nil)
	ReportDataQuality(context.Background(), logger.Nop(), "dq_test_stage", issues, nil)

	if posts != 1 {
		t.Fatalf("alerts: want=1 got=%d", posts)
	}
	if last["stage"] != "dq_test_stage" {
		t.Fatalf("alert stage: got=%v", last["stage"])
	}
}

func TestReportDataQualityIgnoresEmpty(t *testing.T) {
	ReportDataQuality(context.Background(), nil, "noop", nil, nil)
}
