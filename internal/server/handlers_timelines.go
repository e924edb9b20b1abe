package server

import (
	"net/http"

	"github.com/jonathan/recruitment-timeline/internal/types"
)

// ---------------------------------------------------------------------
// Timeline Handlers
// ---------------------------------------------------------------------

// handleCreateTimeline creates a candidate and an empty timeline.
func (s *Server) handleCreateTimeline(w http.ResponseWriter, r *http.Request) {
	var req types.CreateTimelineRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.rejectRequest(w, r, err, req, fieldOrder(&req))
		return
	}

	tl, err := s.service.CreateTimeline(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, types.DataResponse{Data: tl})
}

// handleGetTimeline returns a timeline with its steps and their current statuses.
func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "timeline")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tl, err := s.service.GetTimeline(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.DataResponse{Data: tl})
}
