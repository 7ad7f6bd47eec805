package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// handleHealth reports liveness of the process and reachability of each
// database. Any unreachable database turns the response into a 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	databases := make(map[string]string)
	for _, db := range s.container.Databases() {
		if db == nil {
			continue
		}
		if err := db.Conn().PingContext(ctx); err != nil {
			s.log.Warn().Err(err).Str("database", db.Name()).Msg("Health check ping failed")
			databases[db.Name()] = err.Error()
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		databases[db.Name()] = "ok"
	}

	s.writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"version":   Version,
		"service":   "folio",
		"databases": databases,
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
