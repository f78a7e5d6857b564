package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/reqtap/reqtap/pkg/correlation"
)

// demoMux serves a few endpoints that exercise the interceptor's paths:
// success, client error, server error, fault, and a JSON echo that shows
// field masking.
func demoMux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	mux.HandleFunc("POST /echo", func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unreadable body"})
			return
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "body is not JSON"})
			return
		}
		id, _ := correlation.FromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"echo": doc, "correlationId": id})
	})

	mux.HandleFunc("GET /missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no such thing"})
	})

	mux.HandleFunc("GET /fail", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "simulated failure"})
	})

	mux.HandleFunc("GET /panic", func(w http.ResponseWriter, r *http.Request) {
		panic("demo panic")
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
