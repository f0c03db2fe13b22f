package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photobook/pkg/cache"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/httputil"
	"github.com/matzehuels/photobook/pkg/layout"
	"github.com/matzehuels/photobook/pkg/observability"
	"github.com/matzehuels/photobook/pkg/photo"
	"github.com/matzehuels/photobook/pkg/pipeline"
)

const (
	defaultAddr           = ":8080"
	defaultRequestTimeout = 2 * time.Minute

	// maxComposeBody bounds the compose JSON accepted by /render.
	maxComposeBody = 1 << 20
)

type serveOpts struct {
	addr      string
	templates string
	timeout   time.Duration
	private   bool
	cache     cacheFlags
}

// serveCommand creates the serve command that exposes the render pipeline
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var so serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render pipeline over HTTP.

Routes:
  GET  /healthz   liveness probe
  GET  /layouts   the template catalog as JSON
  POST /render    render a compose document (JSON body)
                  ?format=pdf (default) or png, &page=N for a single PNG page;
                  png without page lists the pages of a multi-page book
  GET  /metrics   Prometheus metrics

Only http(s) photo references are loaded, and only from public addresses;
file references and loopback, private or link-local hosts render as
placeholders. --allow-private lifts the address check for a catalog on
the local network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), so)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&so.templates, "templates", "", "TOML file with additional templates")
	cmd.Flags().DurationVar(&so.timeout, "timeout", defaultRequestTimeout, "per-request render deadline")
	cmd.Flags().BoolVar(&so.private, "allow-private", false, "allow photo fetches from loopback and private addresses")
	so.cache.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, so serveOpts) error {
	runner, err := c.newRunner(ctx, so.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	catalog, err := pipeline.LoadCatalog(so.templates)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetExportHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := &server{
		runner:    runner,
		catalog:   catalog,
		templates: so.templates,
		timeout:   so.timeout,
		logger:    c.Logger,
		registry:  reg,
		fetcher:   photoHTTPClient(so.private),
	}
	srv := &http.Server{
		Addr:              so.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", so.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// server holds the dependencies of the HTTP handlers.
type server struct {
	runner    *pipeline.Runner
	catalog   *layout.Catalog
	templates string
	timeout   time.Duration
	logger    *log.Logger
	registry  *prometheus.Registry
	fetcher   *http.Client // photo downloads
}

// photoHTTPClient returns the client photo downloads go through. Unless
// private is set it refuses non-public addresses.
func photoHTTPClient(private bool) *http.Client {
	if private {
		return &http.Client{Timeout: httputil.DefaultTimeout}
	}
	return &http.Client{Transport: httputil.PublicTransport(), Timeout: httputil.DefaultTimeout}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/layouts", s.handleLayouts)
	r.Post("/render", s.handleRender)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// requestLogger attaches a request-scoped logger to the context and logs
// each response.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.GetReqID(r.Context())
		if id == "" {
			id = uuid.NewString()
		}
		l := s.logger.With("request", id)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), l)))
		l.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
	})
}

// layoutInfo is the JSON form of a template.
type layoutInfo struct {
	Key      string        `json:"key"`
	Name     string        `json:"name"`
	Icon     string        `json:"icon"`
	Zones    []layout.Zone `json:"zones"`
	Overlaps bool          `json:"overlaps"`
}

func (s *server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	templates := s.catalog.Templates()
	out := make([]layoutInfo, 0, len(templates))
	for _, t := range templates {
		out = append(out, layoutInfo{
			Key:      t.Key,
			Name:     t.Name,
			Icon:     t.Icon,
			Zones:    t.Zones,
			Overlaps: len(t.Overlaps()) > 0,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r.Context())

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.FormatPDF
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	page := -1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || format != pipeline.FormatPNG {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "page requires format=png and a non-negative integer, got %q", v))
			return
		}
		page = n
	}

	compose, err := pipeline.ParseCompose(http.MaxBytesReader(w, r.Body, maxComposeBody), pipeline.EncodingJSON)
	if err != nil {
		writeError(w, err)
		return
	}
	if page >= len(compose.Pages) {
		writeError(w, errors.New(errors.ErrCodePageIndexOutOfRange, "page %d of %d", page, len(compose.Pages)))
		return
	}

	result, err := s.runner.Execute(r.Context(), compose, pipeline.Options{
		Formats:   []string{format},
		Templates: s.templates,
		Timeout:   s.timeout,
		Logger:    logger,
		Loader:    remoteOnly(photo.NewSource(s.photoClient(), "", logger)),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	artifacts := result.ByFormat(format)
	if page >= 0 {
		artifacts = artifacts[page : page+1]
	}
	if len(artifacts) != 1 {
		writeJSON(w, http.StatusOK, artifactIndex(artifacts))
		return
	}
	a := artifacts[0]
	w.Header().Set("Content-Type", contentType(a.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
	w.Header().Set("X-Photobook-Warnings", strconv.Itoa(len(result.Warnings)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

func (s *server) photoClient() *httputil.Client {
	client := httputil.NewClient(s.runner.Cache, cache.TTLPhoto, nil)
	client.SetKeyer(s.runner.Keyer)
	client.SetHTTPClient(s.fetcher)
	return client
}

// remoteOnly refuses file references so that requests cannot read the
// server's file system. Refused photos become placeholders. Addresses are
// checked by the fetcher.
func remoteOnly(l photo.Loader) photo.Loader {
	return photo.LoaderFunc(func(ctx context.Context, ref string) (image.Image, error) {
		if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
			return nil, errors.New(errors.ErrCodeInvalidInput, "photo %s: only http(s) references are served", ref)
		}
		return l.Load(ctx, ref)
	})
}

type artifactEntry struct {
	Filename string `json:"filename"`
	Page     int    `json:"page"`
	Size     int    `json:"size"`
}

// artifactIndex lists multi-page PNG results; clients fetch pages one at a
// time with ?page=N.
func artifactIndex(artifacts []pipeline.Artifact) []artifactEntry {
	out := make([]artifactEntry, len(artifacts))
	for i, a := range artifacts {
		out[i] = artifactEntry{Filename: a.Filename, Page: a.Page, Size: len(a.Data)}
	}
	return out
}

func contentType(format string) string {
	if format == pipeline.FormatPDF {
		return "application/pdf"
	}
	return "image/png"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error code to an HTTP status and writes a JSON body.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidTemplate, errors.ErrCodeUnknownLayout,
		errors.ErrCodeZoneIndexOutOfRange, errors.ErrCodePageIndexOutOfRange:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	case errors.ErrCodeNetwork:
		status = http.StatusBadGateway
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{"code": string(code), "error": err.Error()})
}
