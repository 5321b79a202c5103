package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gpubook/internal/export"
	"gpubook/internal/metrics"
)

// handleNodes lists the configured resource pool.
// GET /api/nodes
func (s *HTTPServer) handleNodes(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("nodes")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	pool := s.sched.Pool()
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":         pool.Nodes,
		"gpus_per_node": pool.GPUsPerNode,
	})
}

// handleNodeEvents serves the calendar-widget feed for one node.
// GET /api/nodes/{node}/events
func (s *HTTPServer) handleNodeEvents(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("node_events")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/nodes/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "events" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	node, err := strconv.Atoi(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid node")
		return
	}
	if !s.sched.Pool().ContainsNode(node) {
		writeError(w, http.StatusNotFound, "unknown node")
		return
	}

	evs, err := s.sched.Events(r.Context(), node)
	if err != nil {
		s.log.Error().Err(err).Int("node", node).Msg("events feed failed")
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	// Calendar widgets expect a bare JSON array.
	writeJSON(w, http.StatusOK, evs)
}

// handleExport streams an xlsx report of all bookings, one sheet per node.
// GET /api/export
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	wb := export.NewWorkbook()
	defer wb.Close()

	for _, node := range s.sched.Pool().Nodes {
		bookings, err := s.sched.BookingsByNode(r.Context(), node)
		if err != nil {
			s.log.Error().Err(err).Int("node", node).Msg("export query failed")
			writeError(w, http.StatusInternalServerError, "failed to build report")
			return
		}
		if err := wb.AddNodeSheet(node, bookings); err != nil {
			s.log.Error().Err(err).Int("node", node).Msg("export sheet failed")
			writeError(w, http.StatusInternalServerError, "failed to build report")
			return
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "bookings.xlsx"))
	if _, err := wb.WriteTo(w); err != nil {
		s.log.Error().Err(err).Msg("export write failed")
	}
}
