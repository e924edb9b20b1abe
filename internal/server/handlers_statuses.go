package server

import (
	"net/http"

	"github.com/jonathan/recruitment-timeline/internal/types"
)

// ---------------------------------------------------------------------
// Status Handlers
// ---------------------------------------------------------------------

// handleAppendStatus records a new status on a step.
func (s *Server) handleAppendStatus(w http.ResponseWriter, r *http.Request) {
	stepID, err := pathID(r, "step_id", "step")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.service.RequireStep(r.Context(), stepID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.AppendStatusRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.rejectRequest(w, r, err, req, fieldOrder(&req))
		return
	}

	status, err := s.service.AppendStatus(r.Context(), stepID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, types.DataResponse{Data: status})
}
