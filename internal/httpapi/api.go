// Package httpapi exposes the service over HTTP: token issuance, account
// provisioning, sequence allocation and order number formatting.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"timbal.com.mx/internal/auth"
	"timbal.com.mx/internal/obs"
	"timbal.com.mx/internal/ordernum"
	"timbal.com.mx/internal/provision"
	"timbal.com.mx/internal/sequence"
	"timbal.com.mx/internal/stream"
)

// ReadyProbe reports readiness, typically by pinging the database.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	verifier    *auth.Verifier
	provisioner *provision.Service
	allocator   sequence.Allocator
	stream      *stream.Stream

	orderPrefix    string
	orderSeparator string
	orderMinWidth  int

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, verifier *auth.Verifier, provisioner *provision.Service, allocator sequence.Allocator, s *stream.Stream) *API {
	a := &API{
		mux:         http.NewServeMux(),
		readyProbe:  rp,
		version:     version,
		verifier:    verifier,
		provisioner: provisioner,
		allocator:   allocator,
		stream:      s,

		orderPrefix:    ordernum.DefaultPrefix,
		orderSeparator: ordernum.DefaultSeparator,
		orderMinWidth:  ordernum.MinWidth,

		rateBurst:  20,
		ratePerSec: 10,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// auth
	a.mux.HandleFunc("/v1/auth/token", a.handleAuthToken)

	// provisioning
	a.mux.HandleFunc("/v1/users", a.handleUsers)

	// sequence + order numbers
	a.mux.HandleFunc("/v1/sequence/next", a.handleSequenceNext)
	a.mux.HandleFunc("/v1/orders/number", a.handleOrderNumber)
	a.mux.HandleFunc("/v1/orders/number/override", a.handleOrderOverride)

	// SSE feed of allocated order numbers
	a.mux.HandleFunc("/v1/orders/stream", a.Stream)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// SetOrderFormat overrides the configured order number format.
func (a *API) SetOrderFormat(prefix, separator string, minWidth int) {
	if prefix != "" {
		a.orderPrefix = prefix
	}
	if separator != "" {
		a.orderSeparator = separator
	}
	if minWidth > 0 {
		a.orderMinWidth = minWidth
	}
}

// SetRateLimit overrides the per-IP rate limit.
func (a *API) SetRateLimit(burst, perSecond int) {
	if burst > 0 {
		a.rateBurst = burst
	}
	if perSecond > 0 {
		a.ratePerSec = perSecond
	}
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = obs.Instrument(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return h
}

// --- basic handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "timbal-core",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":         "timbal-core",
		"time":         time.Now().UTC().Format(time.RFC3339),
		"version":      a.version,
		"order_prefix": a.orderPrefix,
	})
}
