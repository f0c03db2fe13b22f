package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopExportHooks{}
	e.OnExportStart(ctx, "doc", 2, []string{"pdf"})
	e.OnPageRendered(ctx, 0, time.Second, nil)
	e.OnExportComplete(ctx, "doc", time.Second, 1, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "photo")
	c.OnCacheMiss(ctx, "page")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "res.cloudinary.com", "/a.jpg")
	h.OnResponse(ctx, "GET", "res.cloudinary.com", "/a.jpg", 200, time.Second)
	h.OnError(ctx, "GET", "res.cloudinary.com", "/a.jpg", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Export() should return NoopExportHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customExport := &testExportHooks{}
	SetExportHooks(customExport)
	if Export() != customExport {
		t.Error("SetExportHooks should set custom hooks")
	}
	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}
	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Reset() should restore NoopExportHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testExportHooks{}
	SetExportHooks(custom)
	SetExportHooks(nil)
	if Export() != custom {
		t.Error("SetExportHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnPageRendered(ctx, 0, 10*time.Millisecond, nil)
	h.OnPageRendered(ctx, 1, 10*time.Millisecond, errors.New("boom"))
	h.OnExportComplete(ctx, "doc", time.Second, 3, nil)
	h.OnCacheHit(ctx, "photo")
	h.OnCacheHit(ctx, "photo")
	h.OnCacheSet(ctx, "page", 2048)
	h.OnResponse(ctx, "GET", "example.com", "/", 200, time.Millisecond)
	h.OnError(ctx, "GET", "example.com", "/", errors.New("refused"))

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"pages ok", h.pages.WithLabelValues("ok"), 1},
		{"pages error", h.pages.WithLabelValues("error"), 1},
		{"exports ok", h.exports.WithLabelValues("ok"), 1},
		{"warnings", h.warnings, 3},
		{"photo hits", h.cacheEvents.WithLabelValues("photo", "hit"), 2},
		{"page bytes", h.cacheBytes.WithLabelValues("page"), 2048},
		{"http 200", h.httpRequests.WithLabelValues("example.com", "200"), 1},
		{"http errors", h.httpErrors.WithLabelValues("example.com"), 1},
	}
	for _, tt := range checks {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Errorf("GatherAndCount = %d, %v", n, err)
	}
}

type testExportHooks struct{ NoopExportHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
