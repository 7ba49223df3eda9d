package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"matchdeck/internal/api"
	"matchdeck/internal/entry"
	"matchdeck/internal/store"
)

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()

	filters, errMessage := parseEntryFilters(r)
	if errMessage != "" {
		s.writeError(w, http.StatusBadRequest, errMessage)
		return
	}

	page, err := s.store.ListEntries(r.Context(), filters)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.record("list_entries", started)

	s.writeJSON(w, http.StatusOK, api.EntryListResponse{
		Items: api.FromEntries(page.Items),
		Total: page.Total,
		Page:  page.Page,
		Pages: page.Pages,
		Limit: page.Limit,
	})
}

func (s *Server) handleEntryItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	if rest == "verify-batch" {
		s.handleVerifyBatch(w, r)
		return
	}

	if idStr, ok := strings.CutSuffix(rest, "/verify"); ok {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid entry id")
			return
		}
		s.handleVerifyEntry(w, r, id)
		return
	}

	if rest == "" || strings.Contains(rest, "/") {
		s.writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	e, err := s.store.GetEntry(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if e == nil {
		s.writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromEntry(e))
}

func (s *Server) handleVerifyEntry(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()

	var payload api.VerifyRequest
	if r.Body != nil {
		// Body is optional; an empty verify request is valid.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	e, _, err := s.store.VerifyEntry(r.Context(), id, payload.VerifiedBy, payload.Notes)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if e == nil {
		s.writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	s.record("verify_entry", started)
	s.writeJSON(w, http.StatusOK, api.FromEntry(e))
}

func (s *Server) handleVerifyBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()

	var payload api.VerifyBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(payload.EntryIDs) == 0 {
		s.writeError(w, http.StatusBadRequest, "no entry ids provided")
		return
	}

	verified, requested, err := s.store.VerifyEntryBatch(r.Context(), payload.EntryIDs, payload.VerifiedBy)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.record("verify_batch", started)

	s.writeJSON(w, http.StatusOK, api.VerifyBatchResponse{
		VerifiedCount:  verified,
		TotalRequested: requested,
	})
}

func parseEntryFilters(r *http.Request) (store.EntryFilters, string) {
	query := r.URL.Query()
	filters := store.EntryFilters{
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
	if value := strings.TrimSpace(query.Get("match_type")); value != "" {
		matchType, ok := entry.ParseType(value)
		if !ok {
			return filters, "unknown match type " + value
		}
		filters.MatchType = matchType
	}
	if value := query.Get("verified"); value != "" {
		verified, err := strconv.ParseBool(value)
		if err != nil {
			return filters, "invalid verified flag"
		}
		filters.Verified = &verified
	}
	return filters, ""
}
