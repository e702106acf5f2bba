package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thermospline/internal/database"
	"thermospline/internal/interp"
	"thermospline/internal/resample"
)

// ResampleRequest mirrors the CLI parameters for an on-demand resample of an
// archived range.
type ResampleRequest struct {
	Property           string `json:"property"`
	Hours              int    `json:"hours"`
	SplineOrder        int    `json:"spline_order"`
	TimedeltaMinutes   int    `json:"timedelta_minutes"`
	MaxIntervalMinutes int    `json:"max_interval_minutes"`
	InterpolationMode  string `json:"interpolation_mode"`
	KeepOld            bool   `json:"keep_old"`
}

// Server represents the HTTP server
type Server struct {
	db       *database.DB
	cache    *redis.Client
	cacheTTL time.Duration
	mux      *http.ServeMux
}

// NewServer creates a new HTTP server. cache may be nil to disable response
// caching.
func NewServer(db *database.DB, cache *redis.Client, cacheTTL time.Duration) *Server {
	s := &Server{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		mux:      http.NewServeMux(),
	}

	// Register routes
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/properties", s.handleProperties)
	s.mux.HandleFunc("/api/series", s.handleSeries)
	s.mux.HandleFunc("/api/resample", s.handleResample)
	s.mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

// handleHealth returns the server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().String(),
	})
}

// handleProperties lists the property names present in the archive
func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := s.db.GetProperties()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"properties": properties,
	})
}

// handleSeries returns archived samples for a property, cached briefly in
// redis to spare the database on repeated dashboard polls
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	property := r.URL.Query().Get("property")
	if property == "" {
		http.Error(w, "property query parameter is required", http.StatusBadRequest)
		return
	}

	hours := 24
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		h, err := strconv.Atoi(hoursStr)
		if err != nil || h <= 0 {
			http.Error(w, "hours must be a positive integer", http.StatusBadRequest)
			return
		}
		hours = h
	}

	cacheKey := fmt.Sprintf("series:%s:%d", property, hours)
	if s.cache != nil {
		if cached, err := s.cache.Get(r.Context(), cacheKey).Result(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		} else if err != redis.Nil {
			log.Printf("Cache read failed for %s: %v", cacheKey, err)
		}
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	samples, err := s.db.GetSeries(property, since)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"property": property,
		"count":    len(samples),
		"samples":  samples,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(context.Background(), cacheKey, body, s.cacheTTL).Err(); err != nil {
			log.Printf("Cache write failed for %s: %v", cacheKey, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// handleResample resamples an archived range with request-supplied parameters
func (s *Server) handleResample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := ResampleRequest{
		Hours:             24,
		SplineOrder:       1,
		TimedeltaMinutes:  60,
		InterpolationMode: string(interp.ModeInterp1d),
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Property == "" {
		http.Error(w, "property is required", http.StatusBadRequest)
		return
	}
	if req.Hours <= 0 {
		http.Error(w, "hours must be positive", http.StatusBadRequest)
		return
	}

	opts := resample.Options{
		Order:       req.SplineOrder,
		Step:        time.Duration(req.TimedeltaMinutes) * time.Minute,
		MaxInterval: time.Duration(req.MaxIntervalMinutes) * time.Minute,
		Mode:        interp.Mode(req.InterpolationMode),
		KeepOld:     req.KeepOld,
	}
	if err := opts.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	since := time.Now().Add(-time.Duration(req.Hours) * time.Hour)
	samples, err := s.db.GetSeries(req.Property, since)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := resample.Resample(samples, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"property": req.Property,
		"count":    len(result),
		"samples":  result,
	})
}
