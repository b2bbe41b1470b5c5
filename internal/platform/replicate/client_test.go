package replicate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	t.Setenv("REPLICATE_API_TOKEN", "r8_test")
	t.Setenv("REPLICATE_BASE_URL", baseURL)
	t.Setenv("REPLICATE_MODEL", "acme/pin-model")
	t.Setenv("REPLICATE_POLL_INTERVAL_MS", "1")
	t.Setenv("REPLICATE_MAX_RETRIES", "0")
	c, err := NewClient(logger.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestFirstOutputURL(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		err  bool
	}{
		{raw: `"https://cdn/x.webp"`, want: "https://cdn/x.webp"},
		{raw: `["https://cdn/a.webp","https://cdn/b.webp"]`, want: "https://cdn/a.webp"},
		{raw: `[]`, err: true},
		{raw: `null`, err: true},
		{raw: `{"k":1}`, err: true},
	}
	for _, tc := range cases {
		got, err := firstOutputURL(json.RawMessage(tc.raw))
		if tc.err {
			if err == nil {
				t.Fatalf("firstOutputURL(%s): expected error", tc.raw)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("firstOutputURL(%s): got=%q err=%v", tc.raw, got, err)
		}
	}
}

func TestGenerateImageSyncResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models/acme/pin-model/predictions" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.Header.Get("Prefer") != "wait" {
			t.Errorf("missing Prefer: wait")
		}
		var req predictionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Input["aspect_ratio"] != "2:3" {
			t.Errorf("aspect_ratio: %v", req.Input["aspect_ratio"])
		}
		_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":["https://cdn/p1.webp"]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).GenerateImage(context.Background(), "a pin", "2:3")
	if err != nil || got != "https://cdn/p1.webp" {
		t.Fatalf("GenerateImage: got=%q err=%v", got, err)
	}
}

func TestGenerateImagePollsUntilTerminal(t *testing.T) {
	var polls int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"id":"p2","status":"starting","urls":{"get":"` + srv.URL + `/v1/predictions/p2"}}`))
			return
		}
		if atomic.AddInt32(&polls, 1) < 2 {
			_, _ = w.Write([]byte(`{"id":"p2","status":"processing","urls":{"get":"` + srv.URL + `/v1/predictions/p2"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"p2","status":"succeeded","output":"https://cdn/p2.png"}`))
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).GenerateImage(context.Background(), "a pin", "2:3")
	if err != nil || got != "https://cdn/p2.png" {
		t.Fatalf("GenerateImage: got=%q err=%v", got, err)
	}
	if polls != 2 {
		t.Fatalf("polls: want=2 got=%d", polls)
	}
}

func TestGenerateImageFailedPrediction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"p3","status":"failed","error":"nsfw"}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL).GenerateImage(context.Background(), "a pin", "2:3"); err == nil {
		t.Fatalf("expected error for failed prediction")
	}
}

func TestGenerateImageClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"bad input"}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL).GenerateImage(context.Background(), "a pin", "2:3"); err == nil {
		t.Fatalf("expected error on 422")
	}
}
