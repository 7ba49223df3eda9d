package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"matchdeck/internal/api"
	"matchdeck/internal/match"
	"matchdeck/internal/store"
)

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()

	filters, errMessage := parseMatchFilters(r)
	if errMessage != "" {
		s.writeError(w, http.StatusBadRequest, errMessage)
		return
	}

	page, err := s.store.ListMatches(r.Context(), filters)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.record("list_matches", started)

	s.writeJSON(w, http.StatusOK, api.MatchListResponse{
		Items: api.FromMatches(page.Items),
		Total: page.Total,
		Page:  page.Page,
		Pages: page.Pages,
		Limit: page.Limit,
	})
}

func (s *Server) handleMatchItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/matches/")
	if rest == "bulk-update" {
		s.handleBulkUpdate(w, r)
		return
	}
	if rest == "" || strings.Contains(rest, "/") {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetMatch(w, r, id)
	case http.MethodPatch:
		s.handleUpdateMatch(w, r, id)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request, id int64) {
	m, err := s.store.GetMatch(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromMatch(m))
}

func (s *Server) handleUpdateMatch(w http.ResponseWriter, r *http.Request, id int64) {
	started := time.Now()

	var payload api.MatchUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := store.MatchUpdate{
		YouTubeVideoID: payload.YouTubeVideoID,
		YouTubeTitle:   payload.YouTubeTitle,
		ReviewNotes:    payload.ReviewNotes,
		VerifiedBy:     payload.VerifiedBy,
	}
	if payload.MatchStatus != nil {
		status, ok := match.ParseStatus(*payload.MatchStatus)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown match status "+*payload.MatchStatus)
			return
		}
		update.Status = &status
	}

	m, err := s.store.UpdateMatch(r.Context(), id, update)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	s.statsCache.Invalidate(statsNamespace)
	s.record("update_match", started)
	s.writeJSON(w, http.StatusOK, api.FromMatch(m))
}

func (s *Server) handleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()

	var payload api.BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(payload.IDs) == 0 {
		s.writeError(w, http.StatusBadRequest, "no ids provided")
		return
	}
	status, ok := match.ParseStatus(payload.Status)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown match status "+payload.Status)
		return
	}

	updated, err := s.store.BulkUpdateStatus(r.Context(), payload.IDs, status, payload.Notes)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.statsCache.Invalidate(statsNamespace)
	s.record("bulk_update", started)

	s.writeJSON(w, http.StatusOK, api.BulkUpdateResponse{
		Updated: updated,
		Status:  string(status),
	})
}

func parseMatchFilters(r *http.Request) (store.MatchFilters, string) {
	query := r.URL.Query()
	filters := store.MatchFilters{
		Page:   1,
		Limit:  20,
		Search: strings.TrimSpace(query.Get("search")),
	}

	if value := query.Get("page"); value != "" {
		page, err := strconv.Atoi(value)
		if err != nil || page < 1 {
			return filters, "invalid page"
		}
		filters.Page = page
	}
	if value := query.Get("limit"); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 1 || limit > 500 {
			return filters, "invalid limit"
		}
		filters.Limit = limit
	}
	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status, ok := match.ParseStatus(value)
		if !ok {
			return filters, "unknown match status " + value
		}
		filters.Status = status
	}
	if value := query.Get("score_min"); value != "" {
		bound, err := strconv.Atoi(value)
		if err != nil {
			return filters, "invalid score_min"
		}
		filters.ScoreMin = &bound
	}
	if value := query.Get("score_max"); value != "" {
		bound, err := strconv.Atoi(value)
		if err != nil {
			return filters, "invalid score_max"
		}
		filters.ScoreMax = &bound
	}
	return filters, ""
}
