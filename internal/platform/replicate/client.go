package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/pinforge-backend/internal/observability"
	"github.com/yungbote/pinforge-backend/internal/platform/envutil"
	"github.com/yungbote/pinforge-backend/internal/platform/httpx"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

// ErrNoOutput is returned when a prediction succeeds without an image URL.
var ErrNoOutput = errors.New("replicate: prediction returned no output")

type Client interface {
	// GenerateImage runs one prediction and returns the URL of the first output image.
	GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error)
}

type client struct {
	log          *logger.Logger
	baseURL      string
	apiToken     string
	model        string
	outputFormat string
	httpClient   *http.Client
	pollInterval time.Duration
	maxRetries   int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	token := envutil.String("REPLICATE_API_TOKEN", "")
	if token == "" {
		return nil, fmt.Errorf("missing REPLICATE_API_TOKEN")
	}
	model := envutil.String("REPLICATE_MODEL", "black-forest-labs/flux-schnell")
	if !strings.Contains(model, "/") {
		return nil, fmt.Errorf("REPLICATE_MODEL must be owner/name, got %q", model)
	}
	return &client{
		log:          log.With("service", "ReplicateClient"),
		baseURL:      strings.TrimRight(envutil.String("REPLICATE_BASE_URL", "https://api.replicate.com"), "/"),
		apiToken:     token,
		model:        model,
		outputFormat: envutil.String("REPLICATE_OUTPUT_FORMAT", "webp"),
		httpClient:   &http.Client{Timeout: envutil.Seconds("REPLICATE_TIMEOUT_SECONDS", 90*time.Second)},
		pollInterval: time.Duration(envutil.Int("REPLICATE_POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		maxRetries:   envutil.Int("REPLICATE_MAX_RETRIES", 2),
	}, nil
}

type predictionRequest struct {
	Input map[string]any `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (p *prediction) terminal() bool {
	switch p.Status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

func (c *client) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("image prompt required")
	}
	start := time.Now()
	url, err := c.run(ctx, prompt, aspectRatio)
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.Current().ObserveProviderCall("replicate", "predictions", status, time.Since(start))
	return url, err
}

func (c *client) run(ctx context.Context, prompt, aspectRatio string) (string, error) {
	input := map[string]any{
		"prompt":        prompt,
		"num_outputs":   1,
		"output_format": c.outputFormat,
	}
	if aspectRatio != "" {
		input["aspect_ratio"] = aspectRatio
	}
	var pred prediction
	path := "/v1/models/" + c.model + "/predictions"
	if err := c.doWithRetry(ctx, http.MethodPost, c.baseURL+path, predictionRequest{Input: input}, &pred); err != nil {
		return "", err
	}

	for !pred.terminal() {
		if pred.URLs.Get == "" {
			return "", fmt.Errorf("replicate: prediction %s has no poll url", pred.ID)
		}
		if err := httpx.Sleep(ctx, c.pollInterval); err != nil {
			return "", err
		}
		next := prediction{}
		if err := c.doWithRetry(ctx, http.MethodGet, pred.URLs.Get, nil, &next); err != nil {
			return "", err
		}
		pred = next
	}

	if pred.Status != "succeeded" {
		return "", fmt.Errorf("replicate: prediction %s %s: %v", pred.ID, pred.Status, pred.Error)
	}
	return firstOutputURL(pred.Output)
}

// firstOutputURL accepts either a bare URL string or an array whose first element is the URL.
func firstOutputURL(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return "", ErrNoOutput
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return "", ErrNoOutput
		}
		return strings.TrimSpace(single), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", fmt.Errorf("replicate: unexpected output shape: %w", err)
	}
	if len(list) == 0 || strings.TrimSpace(list[0]) == "" {
		return "", ErrNoOutput
	}
	return strings.TrimSpace(list[0]), nil
}

func (c *client) doWithRetry(ctx context.Context, method, url string, body any, out any) error {
	backoff := 1 * time.Second
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := c.doOnce(ctx, method, url, body, out)
		if err == nil {
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("Replicate request retrying",
			"method", method,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if sErr := httpx.Sleep(ctx, sleepFor); sErr != nil {
			return sErr
		}
		backoff *= 2
	}
	return fmt.Errorf("unreachable retry loop")
}

func (c *client) doOnce(ctx context.Context, method, url string, body any, out any) (*http.Response, error) {
	var rdr io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		// Hold the connection open until the prediction finishes (up to the server's limit).
		req.Header.Set("Prefer", "wait")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, _, err := httpx.ReadLimited(resp.Body, 1<<20)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, &httpx.StatusError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp, fmt.Errorf("replicate decode error: %w", err)
	}
	return resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…(" + strconv.Itoa(len(s)-n) + " more bytes)"
}
