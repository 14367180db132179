package curate

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// DownloadOpts configures an image download during enrichment.
type DownloadOpts struct {
	MaxBytes int64         // max response body size (default: 2MB)
	Timeout  time.Duration // per-request timeout (default: 10s)
}

const (
	defaultMaxBytes = 2 << 20 // full originals; dimension decoding needs complete headers
	defaultTimeout  = 10 * time.Second
)

// DownloadResult holds downloaded image data.
type DownloadResult struct {
	Data     []byte
	MIMEType string
}

// Download fetches an image from url. Tries cfg.StealthClient first (if set),
// falls back to cfg.HTTPClient. Returns nil (not an error) on recoverable
// failures (404, non-image content type, etc.): enrichment is best-effort and
// a record without pixel data is still curatable.
func (cfg *Config) Download(ctx context.Context, url string, opts DownloadOpts) *DownloadResult {
	cfg.defaults()

	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	if cfg.StealthClient != nil {
		if r := fetchImageData(ctx, cfg.StealthClient, url, cfg.UserAgent, opts); r != nil {
			return r
		}
	}
	return fetchImageData(ctx, cfg.HTTPClient, url, cfg.UserAgent, opts)
}

func fetchImageData(ctx context.Context, client *http.Client, imageURL, ua string, opts DownloadOpts) *DownloadResult {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req) //nolint:gosec // G704: URL is caller-supplied by design — SSRF is caller's responsibility
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	ct := resp.Header.Get("Content-Type")
	// Strip MIME parameters: "image/jpeg; charset=utf-8" → "image/jpeg"
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes))
	if err != nil || len(data) == 0 {
		return nil
	}

	return &DownloadResult{Data: data, MIMEType: ct}
}
