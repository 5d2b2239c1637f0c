package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/infra/logging"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeOK writes a success envelope. fields are merged next to "success".
func writeOK(w http.ResponseWriter, status int, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}

	writeJSON(w, status, body)
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeFailure(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   errorBody{Kind: kind, Message: msg},
	})
}

func statusOf(kind string) int {
	switch kind {
	case economy.KindNotFound:
		return http.StatusNotFound
	case economy.KindInvalidInput:
		return http.StatusBadRequest
	case economy.KindContention:
		return http.StatusServiceUnavailable
	case economy.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}

// writeError maps err onto the error taxonomy. Internal faults are logged
// and never leak their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := economy.Kind(err)
	status := statusOf(kind)
	msg := err.Error()

	switch kind {
	case economy.KindInternal:
		logging.FromContext(r.Context()).Error("request failed", "error", err)

		msg = "internal error"
	case economy.KindContention:
		logging.FromContext(r.Context()).Warn("request hit contention", "error", err)
		w.Header().Set("Retry-After", "1")
	}

	writeFailure(w, status, kind, msg)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeFailure(w, http.StatusBadRequest, economy.KindInvalidInput, msg)
}

// decodeBody reads a JSON object into dst, rejecting unknown fields and empty
// bodies.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return errors.New("empty body")
	}

	if err != nil {
		return errors.New("invalid JSON")
	}

	return nil
}
