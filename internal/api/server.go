package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"gpubook/internal/scheduler"
)

// HTTPServer exposes the scheduler over a JSON API.
type HTTPServer struct {
	sched   *scheduler.Scheduler
	log     *zerolog.Logger
	limiter *rate.Limiter
}

// NewHTTPServer constructs the API surface. rps/burst bound the request
// rate across all endpoints.
func NewHTTPServer(sched *scheduler.Scheduler, logger *zerolog.Logger, rps float64, burst int) *HTTPServer {
	return &HTTPServer{
		sched:   sched,
		log:     logger,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Routes returns the handler tree with middleware applied.
func (s *HTTPServer) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/bookings", s.handleBookings)
	mux.HandleFunc("/api/bookings/", s.handleBookingByID)
	mux.HandleFunc("/api/nodes", s.handleNodes)
	mux.HandleFunc("/api/nodes/", s.handleNodeEvents)
	mux.HandleFunc("/api/export", s.handleExport)

	return s.withRequestID(s.withRateLimit(mux))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
