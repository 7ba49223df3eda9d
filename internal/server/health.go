package server

import (
	"net/http"
	"time"

	"matchdeck/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	payload := api.Health{
		Status: "ok",
		DBPath: s.store.Path(),
	}
	payload.UptimeSeconds = time.Since(s.startedAt).Seconds()

	if err := s.store.Ping(r.Context()); err != nil {
		payload.Status = "degraded"
	} else if total, err := s.store.CountMatches(r.Context()); err == nil {
		payload.TotalMatches = total
	}

	if ops, _ := s.collector.Snapshot(); len(ops) > 0 {
		payload.Operations = make(map[string]api.OpMetrics, len(ops))
		for name, op := range ops {
			payload.Operations[name] = api.OpMetrics{
				Count:     op.Count,
				AvgTimeMs: op.AvgMs,
				MinTimeMs: op.MinMs,
				MaxTimeMs: op.MaxMs,
			}
		}
	}

	s.writeJSON(w, http.StatusOK, payload)
}
