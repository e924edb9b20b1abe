package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/recruitment-timeline/internal/server/middleware"
	"github.com/jonathan/recruitment-timeline/internal/timeline"
	"github.com/jonathan/recruitment-timeline/internal/types"
)

// pathID parses a positive integer path parameter. Anything else is reported
// as the resource not existing.
func pathID(r *http.Request, name, resource string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &timeline.NotFoundError{Resource: resource}
	}
	return id, nil
}

// handleUser returns the authenticated principal.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	subject, err := middleware.GetSubject(r)
	if err != nil {
		s.writeError(w, r, ErrUnauthenticated)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.User{ID: subject})
}
