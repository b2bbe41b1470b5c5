package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/pinforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/pinforge-backend/internal/platform/envutil"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

// Issue kinds reported by the generation pipeline.
const (
	IssueDuplicateText  = "duplicate_text"
	IssueFallbackText   = "fallback_text"
	IssueTruncatedText  = "truncated_text"
	IssueShortVariation = "short_variation_set"
	IssueOther          = "other"
)

// Issue is a single data quality observation.
type Issue struct {
	Kind   string
	Detail string
}

type dqAlertState struct {
	mu   sync.Mutex
	last map[string]time.Time
}

var dqAlerts dqAlertState

// ReportDataQuality logs issues for a stage, counts them per kind and optionally posts a
// rate-limited webhook alert. It never fails the caller.
func ReportDataQuality(ctx context.Context, log *logger.Logger, stage string, issues []Issue, meta map[string]any) {
	if len(issues) == 0 {
		return
	}
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = "unknown"
	}
	if meta == nil {
		meta = map[string]any{}
	}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			meta["trace_id"] = td.TraceID
		}
		if td.RequestID != "" {
			meta["request_id"] = td.RequestID
		}
	}

	counts := map[string]int{}
	samples := make([]string, 0, 3)
	for _, is := range issues {
		kind := strings.TrimSpace(is.Kind)
		if kind == "" {
			kind = IssueOther
		}
		counts[kind]++
		Current().IncDataQuality(stage, kind)
		if d := strings.TrimSpace(is.Detail); d != "" && len(samples) < 3 {
			samples = append(samples, d)
		}
	}

	if log != nil {
		log.Warn("data quality issue detected",
			"stage", stage,
			"issues", counts,
			"samples", samples,
			"meta", meta,
		)
	}
	sendDataQualityAlert(stage, counts, samples, meta, log)
}

func sendDataQualityAlert(stage string, counts map[string]int, samples []string, meta map[string]any, log *logger.Logger) {
	if !envutil.Bool("DATA_QUALITY_ALERTS_ENABLED", false) {
		return
	}
	webhook := envutil.String("DATA_QUALITY_ALERT_WEBHOOK_URL", "")
	if webhook == "" || len(counts) == 0 {
		return
	}
	minInterval := envutil.Seconds("DATA_QUALITY_ALERT_MIN_INTERVAL_SECONDS", 5*time.Minute)

	dqAlerts.mu.Lock()
	if dqAlerts.last == nil {
		dqAlerts.last = map[string]time.Time{}
	}
	if last := dqAlerts.last[stage]; !last.IsZero() && time.Since(last) < minInterval {
		dqAlerts.mu.Unlock()
		return
	}
	dqAlerts.last[stage] = time.Now()
	dqAlerts.mu.Unlock()

	body, _ := json.Marshal(map[string]any{
		"title":     "Data quality issue",
		"stage":     stage,
		"issues":    counts,
		"samples":   samples,
		"meta":      meta,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	req, err := http.NewRequest(http.MethodPost, webhook, bytes.NewReader(body))
	if err != nil {
		if log != nil {
			log.Warn("data quality alert request build failed", "error", err, "stage", stage)
		}
		return
	}
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		if log != nil {
			log.Warn("data quality alert post failed", "error", err, "stage", stage)
		}
		return
	}
	_ = resp.Body.Close()
	if log != nil {
		log.Info("data quality alert sent", "stage", stage, "status", resp.StatusCode)
	}
}
