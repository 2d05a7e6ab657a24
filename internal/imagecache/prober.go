package imagecache

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// permanentSources are image hosts that never recycle URLs; references on
// these domains skip the liveness probe entirely. Relative references
// (locally served media) are likewise exempt.
var permanentSources = []string{
	"images.unsplash.com",
	"source.unsplash.com",
	"placehold.co",
	"via.placeholder.com",
}

// PermanentSource reports whether the reference is exempt from liveness
// verification.
func PermanentSource(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		// Unparseable or relative references point at locally served media.
		return true
	}
	host := strings.ToLower(u.Host)
	for _, src := range permanentSources {
		if host == src {
			return true
		}
	}
	return false
}

// URLProber checks whether a previously cached image reference is still
// resolvable.
type URLProber interface {
	Alive(ctx context.Context, ref string) bool
}

// HTTPProber verifies references with a lightweight HEAD request. Any
// non-success status, transport error, or timeout marks the reference dead.
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPProber creates a prober with the given per-probe timeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPProber{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Alive issues the existence probe. Permanent sources are reported alive
// without a network call.
func (p *HTTPProber) Alive(ctx context.Context, ref string) bool {
	if PermanentSource(ref) {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, ref, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
