// Package supplier provides HTTP handlers.
package supplier

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"suppliergw/internal/resilience"
)

func (t *HTTPTransport) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/hotels/search", t.handleSearch)
	mux.HandleFunc("/v1/hotels/quote", t.handleQuote)
	mux.HandleFunc("/v1/holds", t.handleCreateHold)
	mux.HandleFunc("/v1/fx/rate", t.handleRate)
	mux.HandleFunc("/v1/email/send", t.handleSendEmail)
	mux.HandleFunc("/healthz", t.handleHealth)
	mux.HandleFunc("/readyz", t.handleReady)
	mux.HandleFunc("/metrics", t.handleMetrics)
}

func (t *HTTPTransport) handleSearch(w http.ResponseWriter, r *http.Request) {
	requestID, ok := t.begin(w, r, http.MethodPost)
	if !ok {
		return
	}
	defer t.end("httpSearch", time.Now())

	var httpReq httpSearchRequest
	if err := t.decodeJSON(w, r, &httpReq); err != nil {
		t.writeError(w, requestID, err)
		return
	}
	resp, err := t.booking.SearchHotels(r.Context(), toSearchRequest(httpReq, requestID))
	if err != nil {
		t.writeError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, fromSearchResponse(resp))
}

func (t *HTTPTransport) handleQuote(w http.ResponseWriter, r *http.Request) {
	requestID, ok := t.begin(w, r, http.MethodPost)
	if !ok {
		return
	}
	defer t.end("httpQuote", time.Now())

	var httpReq httpQuoteRequest
	if err := t.decodeJSON(w, r, &httpReq); err != nil {
		t.writeError(w, requestID, err)
		return
	}
	resp, err := t.booking.QuoteHold(r.Context(), toQuoteRequest(httpReq, requestID))
	if err != nil {
		t.writeError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, fromQuoteResponse(resp))
}

func (t *HTTPTransport) handleCreateHold(w http.ResponseWriter, r *http.Request) {
	requestID, ok := t.begin(w, r, http.MethodPost)
	if !ok {
		return
	}
	defer t.end("httpCreateHold", time.Now())

	var httpReq httpHoldRequest
	if err := t.decodeJSON(w, r, &httpReq); err != nil {
		t.writeError(w, requestID, err)
		return
	}
	req := toHoldRequest(httpReq, requestID, r.Header.Get("Idempotency-Key"))
	resp, err := t.booking.CreateHold(r.Context(), req)
	if err != nil {
		t.writeError(w, requestID, err)
		return
	}
	status := http.StatusCreated
	if resp.Reused {
		status = http.StatusOK
	}
	writeJSON(w, status, fromHoldResponse(resp))
}

func (t *HTTPTransport) handleRate(w http.ResponseWriter, r *http.Request) {
	requestID, ok := t.begin(w, r, http.MethodGet)
	if !ok {
		return
	}
	defer t.end("httpRate", time.Now())

	req := &RateRequest{
		RequestID: requestID,
		Base:      r.URL.Query().Get("base"),
		Quote:     r.URL.Query().Get("quote"),
	}
	resp, err := t.booking.ConvertRate(r.Context(), req)
	if err != nil {
		t.writeError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, fromRateResponse(resp))
}

func (t *HTTPTransport) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	requestID, ok := t.begin(w, r, http.MethodPost)
	if !ok {
		return
	}
	defer t.end("httpSendEmail", time.Now())

	if !t.authorize(r) {
		t.writeError(w, requestID, resilience.ErrAuthRequired)
		return
	}
	var httpReq httpEmailRequest
	if err := t.decodeJSON(w, r, &httpReq); err != nil {
		t.writeError(w, requestID, err)
		return
	}
	req := toEmailRequest(httpReq, requestID, r.Header.Get("Idempotency-Key"))
	resp, err := t.booking.SendEmail(r.Context(), req)
	if err != nil {
		t.writeError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusAccepted, fromEmailResponse(resp))
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (t *HTTPTransport) handleReady(w http.ResponseWriter, r *http.Request) {
	if !t.ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (t *HTTPTransport) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if t.cfg.Metrics == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, t.cfg.Metrics.Snapshot())
}

// begin enforces the method, admits the request past the drain gate,
// and resolves the request id.
func (t *HTTPTransport) begin(w http.ResponseWriter, r *http.Request, method string) (string, bool) {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return "", false
	}
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if !t.inflight.Begin() {
		writeJSON(w, http.StatusServiceUnavailable, httpErrorResponse{
			Error:     "shutting down",
			ErrorCode: string(resilience.CodeSupplierTimeout),
			RequestID: requestID,
		})
		return "", false
	}
	w.Header().Set("X-Request-ID", requestID)
	return requestID, true
}

func (t *HTTPTransport) end(op string, start time.Time) {
	t.inflight.End()
	if t.cfg.Metrics != nil {
		t.cfg.Metrics.ObserveLatency("gateway", op, time.Since(start))
	}
}

func (t *HTTPTransport) authorize(r *http.Request) bool {
	if !t.cfg.EnableAuth {
		return true
	}
	return t.cfg.AdminToken != "" && r.Header.Get("Authorization") == "Bearer "+t.cfg.AdminToken
}

func (t *HTTPTransport) decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, t.cfg.MaxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return resilience.Wrap(resilience.CodeInputInvalid, "request body is required", err)
		}
		return resilience.Wrap(resilience.CodeInputInvalid, "malformed request body", err)
	}
	return nil
}

func (t *HTTPTransport) writeError(w http.ResponseWriter, requestID string, err error) {
	code := resilience.CodeOf(err)
	t.cfg.Logger.Error("request failed", map[string]any{
		"requestID": requestID,
		"code":      string(code),
		"error":     err.Error(),
	})
	writeJSON(w, statusForCode(code), httpErrorResponse{
		Error:     err.Error(),
		ErrorCode: string(code),
		RequestID: requestID,
	})
}

func statusForCode(code resilience.ErrorCode) int {
	switch code {
	case resilience.CodeInputInvalid:
		return http.StatusBadRequest
	case resilience.CodeAuthRequired:
		return http.StatusUnauthorized
	case resilience.CodeDataConflict:
		return http.StatusConflict
	case resilience.CodeRateLimited:
		return http.StatusTooManyRequests
	case resilience.CodeSupplierTimeout:
		return http.StatusGatewayTimeout
	case resilience.CodeTransientRetry:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
