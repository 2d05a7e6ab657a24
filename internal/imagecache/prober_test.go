package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPermanentSource(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		permanent bool
	}{
		{"unsplash", "https://images.unsplash.com/photo-123?w=400", true},
		{"placeholder service", "https://placehold.co/400x300?text=Dish", true},
		{"relative media path", "/media/abc123.png", true},
		{"arbitrary host", "https://cdn.example.com/dish.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.permanent, PermanentSource(tt.ref))
		})
	}
}

func TestHTTPProberAlive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	prober := NewHTTPProber(time.Second)
	assert.True(t, prober.Alive(context.Background(), srv.URL+"/dish.png"))
}

func TestHTTPProberDeadOnNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	prober := NewHTTPProber(time.Second)
	assert.False(t, prober.Alive(context.Background(), srv.URL+"/gone.png"))
}

func TestHTTPProberDeadOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	prober := NewHTTPProber(20 * time.Millisecond)
	assert.False(t, prober.Alive(context.Background(), srv.URL+"/slow.png"))
}

func TestHTTPProberDeadOnUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	prober := NewHTTPProber(200 * time.Millisecond)
	assert.False(t, prober.Alive(context.Background(), addr+"/dish.png"))
}

func TestHTTPProberSkipsPermanentSources(t *testing.T) {
	// No server behind this URL; the exemption must short-circuit the probe.
	prober := NewHTTPProber(50 * time.Millisecond)
	assert.True(t, prober.Alive(context.Background(), "https://placehold.co/400x300"))
}
