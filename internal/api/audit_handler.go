package api

import (
	"net/http"
	"strconv"

	"github.com/sifis-home/wp6-mobile-application-api/internal/audit"
)

// handleAuditList returns the audit trail, most recent first.
//
// Query parameters: action and outcome filter entries, limit and offset
// paginate. Non-numeric limit or offset is a 400.
func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := audit.Filter{
		Action:  q.Get("action"),
		Outcome: q.Get("outcome"),
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "The limit parameter must be an integer.")
			return
		}
		filter.Limit = limit
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "The offset parameter must be an integer.")
			return
		}
		filter.Offset = offset
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit entries", "error", err)
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
