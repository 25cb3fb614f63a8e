package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphflow/pkg/buildinfo"
	gferrors "github.com/matzehuels/graphflow/pkg/errors"
	"github.com/matzehuels/graphflow/pkg/graph"
	"github.com/matzehuels/graphflow/pkg/layout/force"
	"github.com/matzehuels/graphflow/pkg/observability"
	"github.com/matzehuels/graphflow/pkg/pipeline"
)

// =============================================================================
// Serve Command
// =============================================================================

const (
	defaultServeAddr   = ":8080"
	serveReadTimeout   = 30 * time.Second
	maxGraphBodyBytes  = 8 << 20
	serveShutdownGrace = 5 * time.Second
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Serve exposes the layout engine over HTTP.

POST /v1/layout/{algo} takes a graph document and returns the computed
layout. POST /v1/simulate streams force simulation snapshots as
server-sent events until the run converges or the client disconnects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &layoutServer{runner: runner}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(c.Logger))

	r.Get("/healthz", srv.handleHealth)
	r.Get("/version", srv.handleVersion)
	r.Post("/v1/layout/{algo}", srv.handleLayout)
	r.Post("/v1/simulate", srv.handleSimulate)

	httpSrv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: serveReadTimeout,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownGrace)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// requestLogger tags every request with a UUID and attaches a
// request-scoped logger to the context for the handlers to pick up.
func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set("X-Request-Id", id)
			ctx := withLogger(r.Context(), l.With("request_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// =============================================================================
// Handlers
// =============================================================================

type layoutServer struct {
	runner *pipeline.Runner
}

func (s *layoutServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *layoutServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// handleLayout computes a layout for the posted graph.
// Force options come from query parameters; unset values use engine
// defaults.
func (s *layoutServer) handleLayout(w http.ResponseWriter, r *http.Request) {
	algo := chi.URLParam(r, "algo")

	g, err := readGraphBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Algo:   algo,
		Logger: loggerFromContext(r.Context()),
	}
	if err := parseFrameParams(r, &opts.Width, &opts.Height); err != nil {
		writeError(w, err)
		return
	}
	if err := parseForceParams(r, &opts.Force); err != nil {
		writeError(w, err)
		return
	}

	l, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("X-Cache", cacheHeader(hit))
	data, err := graph.MarshalLayout(l)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// simulateEvent is one SSE payload: the node IDs and their positions at
// a snapshot boundary.
type simulateEvent struct {
	RunID     string           `json:"run_id"`
	Nodes     []string         `json:"nodes"`
	Positions []graph.Position `json:"positions"`
	Final     bool             `json:"final"`
}

// handleSimulate runs a force simulation and streams snapshots as
// server-sent events. The stream ends with a final event carrying the
// settled positions. Client disconnect cancels the run.
func (s *layoutServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, gferrors.New(gferrors.ErrCodeUnsupported, "streaming not supported by this connection"))
		return
	}

	g, err := readGraphBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var width, height float64
	if err := parseFrameParams(r, &width, &height); err != nil {
		writeError(w, err)
		return
	}
	if width == 0 {
		width = pipeline.DefaultWidth
	}
	if height == 0 {
		height = pipeline.DefaultHeight
	}

	var cfg force.Config
	if err := parseForceParams(r, &cfg); err != nil {
		writeError(w, err)
		return
	}

	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}

	ticks := make(chan []graph.Position, 16)
	endCh := make(chan []graph.Position, 1)

	start := time.Now()
	sim := force.Run(g.Nodes, g.Edges, width, height, force.Callbacks{
		OnTick: func(p []graph.Position) {
			select {
			case ticks <- p:
			default: // slow consumer, drop intermediate snapshots
			}
		},
		OnEnd: func(p []graph.Position) {
			endCh <- p
		},
	}, cfg)

	observability.Simulation().OnSimulationStart(r.Context(), sim.RunID, g.NodeCount(), g.EdgeCount())
	loggerFromContext(r.Context()).Info("simulation stream started", "run", sim.RunID, "nodes", len(ids))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	writeEvent := func(positions []graph.Position, final bool) {
		payload, err := json.Marshal(simulateEvent{
			RunID:     sim.RunID,
			Nodes:     ids,
			Positions: positions,
			Final:     final,
		})
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			sim.Cancel()
			observability.Simulation().OnSimulationCancel(r.Context(), sim.RunID)
			return
		case p := <-ticks:
			writeEvent(p, false)
		case p := <-endCh:
			steps := cfg.Iterations
			if steps == 0 {
				steps = force.DefaultIterations
			}
			observability.Simulation().OnSimulationEnd(r.Context(), sim.RunID, steps, time.Since(start))
			writeEvent(p, true)
			return
		}
	}
}

// =============================================================================
// Request Parsing
// =============================================================================

func readGraphBody(r *http.Request) (graph.Graph, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxGraphBodyBytes))
	if err != nil {
		return graph.Graph{}, gferrors.Wrap(gferrors.ErrCodeInvalidInput, err, "read request body")
	}
	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		return graph.Graph{}, gferrors.Wrap(gferrors.ErrCodeInvalidGraph, err, "parse graph")
	}
	return g, nil
}

func parseFrameParams(r *http.Request, width, height *float64) error {
	if err := parseFloatParam(r, "width", width); err != nil {
		return err
	}
	return parseFloatParam(r, "height", height)
}

func parseForceParams(r *http.Request, cfg *force.Config) error {
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return gferrors.New(gferrors.ErrCodeInvalidInput, "invalid seed: %s", v)
		}
		cfg.Seed = seed
	}
	if v := r.URL.Query().Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return gferrors.New(gferrors.ErrCodeInvalidInput, "invalid iterations: %s", v)
		}
		cfg.Iterations = n
	}
	return nil
}

func parseFloatParam(r *http.Request, name string, dst *float64) error {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return gferrors.New(gferrors.ErrCodeInvalidInput, "invalid %s: %s", name, v)
	}
	*dst = f
	return nil
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch gferrors.GetCode(err) {
	case gferrors.ErrCodeInvalidInput, gferrors.ErrCodeInvalidGraph,
		gferrors.ErrCodeInvalidAlgo, gferrors.ErrCodeInvalidDimensions,
		gferrors.ErrCodeInvalidConfig:
		status = http.StatusBadRequest
	case gferrors.ErrCodeNotFound, gferrors.ErrCodeFileNotFound, gferrors.ErrCodeRunNotFound:
		status = http.StatusNotFound
	case gferrors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}
	writeJSON(w, status, map[string]string{"error": gferrors.UserMessage(err)})
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
