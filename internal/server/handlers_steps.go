package server

import (
	"net/http"

	"github.com/jonathan/recruitment-timeline/internal/types"
)

// ---------------------------------------------------------------------
// Step Handlers
// ---------------------------------------------------------------------

// handleCreateStep adds a step with its initial status to a timeline.
// A missing timeline is reported before any body validation.
func (s *Server) handleCreateStep(w http.ResponseWriter, r *http.Request) {
	timelineID, err := pathID(r, "timeline_id", "timeline")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.service.RequireTimeline(r.Context(), timelineID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.CreateStepRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.rejectRequest(w, r, err, req, fieldOrder(&req))
		return
	}

	step, err := s.service.CreateStep(r.Context(), timelineID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, types.DataResponse{Data: step})
}
