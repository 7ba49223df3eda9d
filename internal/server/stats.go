package server

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

const defaultDistributionBins = 10

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()

	summary, err := s.statsCache.Load(r.Context(), statsNamespace, "summary", func(ctx context.Context) (any, error) {
		return s.store.StatsSummary(ctx)
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.record("stats_summary", started)
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleScoreDistribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()

	bins := defaultDistributionBins
	if value := r.URL.Query().Get("bins"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid bins")
			return
		}
		bins = parsed
	}

	key := "distribution/" + strconv.Itoa(bins)
	distribution, err := s.statsCache.Load(r.Context(), statsNamespace, key, func(ctx context.Context) (any, error) {
		return s.store.ScoreDistribution(ctx, bins)
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.record("score_distribution", started)
	s.writeJSON(w, http.StatusOK, distribution)
}

func (s *Server) handleNotUploadedCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()

	breakdown, err := s.statsCache.Load(r.Context(), statsNamespace, "not-uploaded-categories", func(ctx context.Context) (any, error) {
		return s.store.NotUploadedCategories(ctx)
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.record("not_uploaded_categories", started)
	s.writeJSON(w, http.StatusOK, breakdown)
}
