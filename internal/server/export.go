package server

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"matchdeck/internal/api"
	"matchdeck/internal/match"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	started := time.Now()

	report := strings.TrimPrefix(r.URL.Path, "/api/export/")
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		s.writeError(w, http.StatusBadRequest, "unsupported format "+format)
		return
	}

	switch report {
	case "report":
		s.exportReport(w, r, format)
	case "not-uploaded":
		s.exportNotUploaded(w, r, format)
	default:
		s.writeError(w, http.StatusNotFound, "unknown report "+report)
		return
	}
	s.record("export_"+report, started)
}

func (s *Server) exportReport(w http.ResponseWriter, r *http.Request, format string) {
	var status match.Status
	if value := strings.TrimSpace(r.URL.Query().Get("status")); value != "" {
		parsed, ok := match.ParseStatus(value)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown match status "+value)
			return
		}
		status = parsed
	}

	matches, err := s.store.AllMatchesForExport(r.Context(), status)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if format == "json" {
		w.Header().Set("Content-Disposition", `attachment; filename="matchdeck-report.json"`)
		s.writeJSON(w, http.StatusOK, api.FromMatches(matches))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="matchdeck-report.csv"`)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"id", "nas_filename", "nas_directory", "youtube_title", "match_score", "match_status", "verified_by"})
	for _, m := range matches {
		_ = writer.Write([]string{
			strconv.FormatInt(m.ID, 10),
			m.NASFilename,
			m.NASDirectory,
			m.YouTubeTitle,
			strconv.Itoa(m.MatchScore),
			string(m.MatchStatus),
			m.VerifiedBy,
		})
	}
	writer.Flush()
}

// exportNotUploaded streams the complete not-uploaded row set. The capped
// per-directory breakdown stays on the stats endpoint; a downloadable report
// must carry every row.
func (s *Server) exportNotUploaded(w http.ResponseWriter, r *http.Request, format string) {
	matches, err := s.store.NotUploadedForExport(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if format == "json" {
		w.Header().Set("Content-Disposition", `attachment; filename="matchdeck-not-uploaded.json"`)
		s.writeJSON(w, http.StatusOK, api.FromMatches(matches))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="matchdeck-not-uploaded.csv"`)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"id", "nas_filename", "nas_directory", "youtube_title", "match_score", "match_status", "verified_by"})
	for _, m := range matches {
		_ = writer.Write([]string{
			strconv.FormatInt(m.ID, 10),
			m.NASFilename,
			m.NASDirectory,
			m.YouTubeTitle,
			strconv.Itoa(m.MatchScore),
			string(m.MatchStatus),
			m.VerifiedBy,
		})
	}
	writer.Flush()
}
