package content

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/jobs/background"
	"github.com/yungbote/pinforge-backend/internal/observability"
	"github.com/yungbote/pinforge-backend/internal/platform/envutil"
	"github.com/yungbote/pinforge-backend/internal/platform/httpx"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultCacheTTL     = 24 * time.Hour
	defaultMaxBodyBytes = 2 << 20
	defaultUserAgent    = "Mozilla/5.0 (compatible; PinforgeBot/1.0; +https://pinforge.app/bot) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

type Config struct {
	FetchTimeout time.Duration
	CacheTTL     time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

func ConfigFromEnv() Config {
	return Config{
		FetchTimeout: envutil.Seconds("CONTENT_FETCH_TIMEOUT_SECONDS", defaultFetchTimeout),
		CacheTTL:     time.Duration(envutil.Int("CONTENT_CACHE_TTL_HOURS", 24)) * time.Hour,
		MaxBodyBytes: int64(envutil.Int("CONTENT_MAX_BODY_BYTES", defaultMaxBodyBytes)),
		UserAgent:    envutil.String("CONTENT_USER_AGENT", defaultUserAgent),
	}
}

type Extractor struct {
	log    *logger.Logger
	client *http.Client
	cache  Cache
	bg     background.Dispatcher
	cfg    Config
	now    func() time.Time
}

func NewExtractor(baseLog *logger.Logger, cache Cache, bg background.Dispatcher, cfg Config) *Extractor {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Extractor{
		log:    baseLog.With("module", "ContentExtractor"),
		client: &http.Client{Timeout: cfg.FetchTimeout},
		cache:  cache,
		bg:     bg,
		cfg:    cfg,
		now:    time.Now,
	}
}

// ValidateURL accepts only absolute http(s) URLs with a host.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: url is required", types.ErrValidation)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed url: %v", types.ErrValidation, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: url scheme must be http or https", types.ErrValidation)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: url has no host", types.ErrValidation)
	}
	return u, nil
}

// Analyze returns the cached analysis for rawURL if fresh, otherwise fetches and parses the page.
// Only fetch failures are returned as errors; parse gaps leave fields nil.
func (e *Extractor) Analyze(ctx context.Context, rawURL string) (*types.ContentAnalysis, error) {
	rawURL = strings.TrimSpace(rawURL)
	if _, err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	now := e.now()

	if e.cache != nil {
		hit, err := e.cache.Get(ctx, rawURL, now)
		switch {
		case err != nil:
			e.log.Warn("content cache lookup failed, fetching", "url", rawURL, "error", err)
			observability.Current().IncContentCache("error")
		case hit != nil && !hit.Expired(now):
			observability.Current().IncContentCache("hit")
			return hit, nil
		default:
			observability.Current().IncContentCache("miss")
		}
	}

	body, err := e.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	analysis := Parse(rawURL, body)
	analysis.ExpiresAt = now.Add(e.cfg.CacheTTL)

	if e.cache != nil && e.bg != nil {
		toStore := *analysis
		e.bg.Go(ctx, "content_cache_write", func(ctx context.Context) error {
			return e.cache.Put(ctx, &toStore)
		})
	}
	return analysis, nil
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFetch, err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		observability.Current().ObserveProviderCall("content_site", "fetch", "error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", types.ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.Current().ObserveProviderCall("content_site", "fetch", fmt.Sprint(resp.StatusCode), time.Since(start))
		return nil, fmt.Errorf("%w: %s returned %d", types.ErrFetch, rawURL, resp.StatusCode)
	}
	body, truncated, err := httpx.ReadLimited(resp.Body, e.cfg.MaxBodyBytes)
	if err != nil {
		observability.Current().ObserveProviderCall("content_site", "fetch", "error", time.Since(start))
		return nil, fmt.Errorf("%w: read body: %v", types.ErrFetch, err)
	}
	if truncated {
		e.log.Debug("content body truncated", "url", rawURL, "limit", e.cfg.MaxBodyBytes)
	}
	observability.Current().ObserveProviderCall("content_site", "fetch", "ok", time.Since(start))
	return bytes.TrimSpace(body), nil
}
