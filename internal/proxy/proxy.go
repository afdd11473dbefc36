package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var ErrNoBackend = errors.New("backend URL is not configured (set proxy.backend_url or APP_PROXY_BACKEND_URL)")

// Handler forwards POST bodies verbatim to the backend and relays the answer,
// adding CORS headers so a browser can call it directly.
type Handler struct {
	backend string
	origin  string
	client  *http.Client
	log     *slog.Logger
}

func New(backend, origin string, timeout time.Duration, log *slog.Logger) *Handler {
	if origin == "" {
		origin = "*"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{
		backend: backend,
		origin:  origin,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", h.origin)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method Not Allowed"})
		return
	}

	if h.backend == "" {
		h.log.Error("proxy misconfigured", "err", ErrNoBackend)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": ErrNoBackend.Error()})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.backend, bytes.NewReader(body))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Error("backend unreachable", "backend", h.backend, "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		h.log.Error("backend read failed", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	h.log.Debug("proxied", "status", resp.StatusCode, "bytes", len(text))

	if json.Valid(text) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(text)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
