// Package api serves comparison runs over HTTP.
//
// POST /api/v1/comparisons makes the server fetch caller-supplied URLs, so
// anyone who can reach the API can make it issue GET requests into the
// network it runs in. Enable OIDC (PAIRDIFF_OIDC_ISSUER) or keep the API on
// a trusted network.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/finops-claw-gang/pairdiff/internal/engine"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/querier"
)

// Options configures a Server.
type Options struct {
	// Orchestrator runs synchronous comparisons. Required.
	Orchestrator engine.Runner
	// Querier starts and reads durable comparisons. Nil disables the
	// workflow routes.
	Querier querier.ComparisonQuerier
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler

	CORSOrigins []string
	OIDC        OIDCConfig

	// Defaults applied when a request omits limit or batch_size.
	DefaultLimit     int
	DefaultBatchSize int
}

// Server is the HTTP API server.
type Server struct {
	opts    Options
	mux     *http.ServeMux
	handler http.Handler
}

// New creates a Server. When OIDC is enabled the issuer is discovered using
// ctx, so New fails if the issuer is unreachable.
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.Orchestrator == nil {
		return nil, fmt.Errorf("api: orchestrator required")
	}
	s := &Server{opts: opts, mux: http.NewServeMux()}
	s.routes()

	var inner http.Handler = s.mux
	if opts.OIDC.Enabled {
		provider, err := oidc.NewProvider(ctx, opts.OIDC.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("api: oidc discovery: %w", err)
		}
		inner = oidcAuth(provider, opts.OIDC.Audience)(inner)
	}

	s.handler = requestID(logging(cors(opts.CORSOrigins, inner)))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/v1/comparisons", s.handleCompare)
	s.mux.HandleFunc("POST /api/v1/workflows", s.handleStartWorkflow)
	s.mux.HandleFunc("GET /api/v1/workflows/{id}", s.handleGetWorkflow)
	if s.opts.MetricsHandler != nil {
		s.mux.Handle("GET /metrics", s.opts.MetricsHandler)
	}
}
