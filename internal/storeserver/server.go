// Package storeserver is the shared order store service: a durable
// key-value store with whole-value read/replace semantics and change
// notifications delivered to every subscribed station except the writer.
package storeserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxValueBytes bounds a stored collection value. A kiosk's active day of
// orders fits comfortably; anything bigger is a client bug.
const maxValueBytes = 4 << 20

// Server handles the store's HTTP surface.
type Server struct {
	db  *sql.DB
	hub *Hub
}

// NewServer creates a Server over an opened database and a running hub.
func NewServer(db *sql.DB, hub *Hub) *Server {
	return &Server{db: db, hub: hub}
}

// Router builds the Chi router with all store routes wired up.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration: kiosk screens are local web views
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Station-ID"},
		MaxAge:         300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/v1/collections/{key}", s.Get)
	r.Put("/v1/collections/{key}", s.Replace)
	r.Get("/v1/subscribe", func(w http.ResponseWriter, r *http.Request) {
		ServeWS(s.hub, w, r)
	})

	return r
}

// Get handles GET /v1/collections/{key}: the whole stored value, verbatim.
func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
		return
	}

	value, err := getValue(r.Context(), s.db, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "collection not found"})
			return
		}
		log.Printf("ERROR: read collection %s: %v", key, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	readsTotal.WithLabelValues(key).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(value)
}

// Replace handles PUT /v1/collections/{key}: atomically overwrites the
// whole value, then notifies every subscriber except the writer. There is
// no merge and no compare-and-swap; the last replace wins in full.
func (s *Server) Replace(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxValueBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(body) > maxValueBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "value too large"})
		return
	}
	if !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value must be valid JSON"})
		return
	}

	if err := putValue(r.Context(), s.db, key, body); err != nil {
		log.Printf("ERROR: replace collection %s: %v", key, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	replacesTotal.WithLabelValues(key).Inc()
	notificationsTotal.Inc()
	s.hub.NotifyChange(r.Header.Get("X-Station-ID"), key)

	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: encode response: %v", err)
	}
}
