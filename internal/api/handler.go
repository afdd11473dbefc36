package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

const (
	banner       = "Sistema de Estoque API - Funcionando!"
	maxBodyBytes = 1 << 20
)

var (
	errBadJSON = errors.New("request body must be a JSON object")
	errEncode  = errors.New("response could not be encoded")
)

// Handler serves the single action endpoint: POST {"action": ..., "data": {...}}.
type Handler struct {
	d   *Dispatcher
	log *slog.Logger
}

func NewHandler(d *Dispatcher, log *slog.Logger) *Handler {
	return &Handler{d: d, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(banner))
		return
	case http.MethodPost:
	default:
		h.writeJSON(w, http.StatusMethodNotAllowed, Envelope{"success": false, "error": "Method Not Allowed"})
		return
	}

	var body map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil || body == nil {
		h.log.Info("bad request body", "err", err)
		h.writeJSON(w, http.StatusBadRequest, fail(errBadJSON))
		return
	}

	action, _ := body["action"].(string)
	// without a "data" object the fields are read from the top level
	payload := Payload(body)
	if data, ok := body["data"].(map[string]any); ok {
		payload = Payload(data)
	}

	h.writeJSON(w, http.StatusOK, h.d.Dispatch(r.Context(), action, payload))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error("encode response", "err", err)
		b, _ = json.Marshal(Envelope{"success": false, "error": errEncode.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}
