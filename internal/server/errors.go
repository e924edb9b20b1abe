// Package server provides the HTTP REST API for recruitment timelines.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/recruitment-timeline/internal/logging"
	"github.com/jonathan/recruitment-timeline/internal/server/middleware"
	"github.com/jonathan/recruitment-timeline/internal/timeline"
	"github.com/jonathan/recruitment-timeline/internal/types"
)

// ErrUnauthenticated indicates a missing or invalid bearer token
var ErrUnauthenticated = errors.New("unauthenticated")

// ServerErrorMessage is the only message a 500 response carries.
const ServerErrorMessage = "Server Error"

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		verr *timeline.ValidationError
		oerr *timeline.OwnershipError
		derr *timeline.DuplicateStepCategoryError
		nerr *timeline.NotFoundError

		tooLarge *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &nerr):
		return http.StatusNotFound
	case errors.As(err, &verr), errors.As(err, &oerr), errors.As(err, &derr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the response body for err. Unknown errors never expose
// their text.
func ErrorBody(err error) types.ErrorResponse {
	var (
		verr *timeline.ValidationError
		oerr *timeline.OwnershipError
		derr *timeline.DuplicateStepCategoryError
		nerr *timeline.NotFoundError

		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return types.ErrorResponse{Message: middleware.UnauthenticatedMessage}
	case errors.As(err, &tooLarge):
		return types.ErrorResponse{Message: "Content Too Large"}
	case errors.As(err, &nerr):
		return types.ErrorResponse{Message: notFoundMessage(nerr)}
	case errors.As(err, &verr):
		return types.ErrorResponse{Message: validationSummary(verr), Errors: verr.Messages}
	case errors.As(err, &oerr):
		return types.ErrorResponse{
			Message: oerr.Message,
			Errors:  map[string][]string{oerr.Key: {oerr.Message}},
		}
	case errors.As(err, &derr):
		return types.ErrorResponse{
			Message: timeline.DuplicateStepCategoryMessage,
			Errors:  map[string][]string{timeline.DuplicateStepCategoryKey: {timeline.DuplicateStepCategoryMessage}},
		}
	default:
		return types.ErrorResponse{Message: ServerErrorMessage}
	}
}

// validationSummary is the first message plus a count of the rest.
func validationSummary(verr *timeline.ValidationError) string {
	msg := verr.First()
	switch more := verr.Count() - 1; {
	case more == 1:
		return msg + " (and 1 more error)"
	case more > 1:
		return fmt.Sprintf("%s (and %d more errors)", msg, more)
	default:
		return msg
	}
}

func notFoundMessage(err *timeline.NotFoundError) string {
	resource := err.Resource
	if resource != "" {
		resource = strings.ToUpper(resource[:1]) + resource[1:]
	}
	return fmt.Sprintf("%s not found.", resource)
}

// writeError renders err with its status. Server errors are logged with the
// request that caused them.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusOK {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logging.LogError(s.log, "server", r.Method+" "+r.URL.Path, requestIDFrom(r.Context()), nil, err)
	}
	s.jsonResponse(w, status, ErrorBody(err))
}
