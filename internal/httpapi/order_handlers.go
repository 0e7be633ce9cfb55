package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"timbal.com.mx/internal/audit"
	"timbal.com.mx/internal/obs"
	"timbal.com.mx/internal/ordernum"
	"timbal.com.mx/internal/sequence"
	"timbal.com.mx/internal/stream"
)

type sequenceRequest struct {
	Scope string `json:"scope"`
}

type sequenceResponse struct {
	Scope string `json:"scope"`
	Value int64  `json:"value"`
}

type orderNumberRequest struct {
	Scope    string `json:"scope"`
	Override string `json:"override"`
}

type orderNumberResponse struct {
	Scope    string `json:"scope"`
	Sequence int64  `json:"sequence"`
	Number   string `json:"number"`
	Reserved bool   `json:"reserved"`
}

type overrideRequest struct {
	Input string `json:"input"`
}

type overrideResponse struct {
	Sanitized string `json:"sanitized"`
	Valid     bool   `json:"valid"`
	Number    string `json:"number,omitempty"`
}

func (a *API) handleSequenceNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	// scope is optional; an empty body allocates for the default scope.
	var req sequenceRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	scope := a.resolveScope(req.Scope)

	value, err := a.allocator.Next(r.Context(), scope)
	if err != nil {
		obs.ObserveAllocation(scope, "error")
		handleSequenceError(w, r, err)
		return
	}
	obs.ObserveAllocation(scope, "ok")

	_ = audit.LogEvent(r.Context(), "sequence.allocated", map[string]any{
		"scope": scope,
		"value": strconv.FormatInt(value, 10),
	})

	writeJSON(w, http.StatusOK, sequenceResponse{Scope: scope, Value: value})
}

func (a *API) handleOrderNumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	// Both fields are optional; an empty body issues the next number for the
	// default scope.
	var req orderNumberRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	scope := a.resolveScope(req.Scope)

	value, err := a.allocator.Next(r.Context(), scope)
	if err != nil {
		obs.ObserveAllocation(scope, "error")
		if errors.Is(err, sequence.ErrInvalidScope) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		// Degraded mode: the caller gets a display-only placeholder. The
		// placeholder is never reserved; retrying later allocates a real
		// sequence value.
		payload := map[string]any{
			"error": "sequence allocation unavailable",
			"fallback": orderNumberResponse{
				Scope:    scope,
				Sequence: ordernum.FallbackSequence,
				Number:   ordernum.Fallback(a.orderPrefix, a.orderSeparator, a.orderMinWidth),
				Reserved: false,
			},
		}
		if rid := RequestIDFromContext(r.Context()); rid != "" {
			payload["request_id"] = rid
		}
		writeJSON(w, http.StatusServiceUnavailable, payload)
		return
	}
	obs.ObserveAllocation(scope, "ok")

	display := ordernum.Format(a.orderPrefix, a.orderSeparator, value, a.orderMinWidth)
	number := ordernum.Final(display, req.Override, a.orderPrefix, a.orderSeparator, a.orderMinWidth)

	if a.stream != nil {
		a.stream.Publish(stream.OrderEvent{
			Scope:     scope,
			Sequence:  value,
			Number:    number,
			Timestamp: time.Now().UTC(),
		})
	}

	_ = audit.LogEvent(r.Context(), "order.number.issued", map[string]any{
		"scope":    scope,
		"sequence": strconv.FormatInt(value, 10),
		"number":   number,
	})

	writeJSON(w, http.StatusOK, orderNumberResponse{
		Scope:    scope,
		Sequence: value,
		Number:   number,
		Reserved: true,
	})
}

func (a *API) handleOrderOverride(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req overrideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sanitized := ordernum.SanitizeOverride(req.Input)
	resp := overrideResponse{
		Sanitized: sanitized,
		Valid:     ordernum.ValidOverride(sanitized, a.orderMinWidth),
	}
	if resp.Valid {
		resp.Number = a.orderPrefix + a.orderSeparator + sanitized
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) resolveScope(raw string) string {
	scope := strings.TrimSpace(raw)
	if scope == "" {
		return a.orderPrefix
	}
	return scope
}

func handleSequenceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sequence.ErrInvalidScope):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, sequence.ErrUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "sequence allocation unavailable")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
