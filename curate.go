package curate

import (
	"context"
	"net/http"
)

// DefaultMaxWorkers bounds the per-image enrichment pool. Content analysis
// backends rate-limit aggressively, so the default stays small.
const DefaultMaxWorkers = 3

// RawMetrics holds the six per-image quality measurements produced by the
// external measurement routine. Each value is expected in [0,1]; out-of-range
// values are clamped, never rejected.
type RawMetrics struct {
	Resolution   float64
	Sharpness    float64
	Noise        float64
	ColorQuality float64
	Lighting     float64
	Compression  float64
}

// ContentAnalysis is the payload returned by the external vision backend for
// one image. Category is free-form text ("main", "hero shot", "close-up",
// ...) normalized by DescribeContent.
type ContentAnalysis struct {
	Category   string
	Tags       []string
	Confidence float64
}

// Measurer abstracts the external raw-quality measurement routine.
type Measurer interface {
	Measure(ctx context.Context, imageURL string) (RawMetrics, error)
}

// Analyzer abstracts the external vision/content-analysis service.
// Analyze may fail or rate-limit per image; failures degrade the image to
// unknown content rather than failing the batch.
type Analyzer interface {
	Analyze(ctx context.Context, imageURL string) (*ContentAnalysis, error)
}

// Cache abstracts key-value caching (Redis, sync.Map, etc.) for content
// analysis results. Caller-owned; nil disables caching.
type Cache interface {
	Key(prefix, value string) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
}

// Config holds all dependencies injected by the consumer.
type Config struct {
	Measurer      Measurer     // required for quality scoring (nil = zero metrics)
	Analyzer      Analyzer     // required for content features (nil = unknown content)
	Cache         Cache        // optional: caches Analyzer results per URL
	StealthClient *http.Client // optional: TLS-fingerprinted client for downloads
	HTTPClient    *http.Client // optional: default http client (nil = http.DefaultClient)
	MaxWorkers    int          // enrichment pool size (default: DefaultMaxWorkers)
	UserAgent     string       // default: "Mozilla/5.0 (compatible; go-curate/1.0)"

	// Optional callbacks for metrics/logging.
	OnAnalysis func(url string, degraded bool) // fires once per analyzed image
	OnPanic    func(tag string, r any)
}

// defaults fills zero-value fields with sensible defaults.
func (c *Config) defaults() {
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = DefaultMaxWorkers
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; go-curate/1.0)"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}
