package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"lexora.org/internal/audit"
	"lexora.org/internal/auth"
	"lexora.org/internal/docsec"
	"lexora.org/internal/obs"
	"lexora.org/internal/ratelimit"
)

// ReadyProbe checks process readiness (DB ping when configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options carries the explicitly injected collaborators. No package-level
// service state exists; everything is constructed once at process start.
type Options struct {
	ReadyProbe    ReadyProbe
	Version       string
	Auth          *auth.Service
	Documents     *docsec.Service
	Trail         *audit.Trail
	Limiter       *ratelimit.Limiter
	LoginThrottle *ratelimit.PerIPBucket
}

// API is the HTTP layer.
type API struct {
	mux           *http.ServeMux
	readyProbe    ReadyProbe
	version       string
	auth          *auth.Service
	docs          *docsec.Service
	trail         *audit.Trail
	limiter       *ratelimit.Limiter
	loginThrottle *ratelimit.PerIPBucket
}

func New(opts Options) *API {
	a := &API{
		mux:           http.NewServeMux(),
		readyProbe:    opts.ReadyProbe,
		version:       opts.Version,
		auth:          opts.Auth,
		docs:          opts.Documents,
		trail:         opts.Trail,
		limiter:       opts.Limiter,
		loginThrottle: opts.LoginThrottle,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/login", a.throttleLogin(a.handleLogin))
	a.mux.HandleFunc("/v1/auth/refresh", a.throttleLogin(a.handleRefresh))

	a.mux.HandleFunc("/v1/documents", a.handleDocuments)
	a.mux.HandleFunc("/v1/documents/", a.handleDocumentByID)

	a.mux.HandleFunc("/v1/tax/invoice", a.handleInvoiceTax)
	a.mux.HandleFunc("/v1/tax/expense", a.handleExpenseTax)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler assembles the middleware chain: metrics on the outside, then
// request id, hardening headers, logging, rate limiting and finally
// authentication in front of the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = a.withRateLimit(h)
	h = Logging(h)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- base handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "lexora-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "lexora-api",
		"version": a.version,
	})
}
