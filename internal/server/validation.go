package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/recruitment-timeline/internal/timeline"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return v
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// fieldOrder lists the JSON field names of the struct dst points to.
func fieldOrder(dst any) []string {
	t := reflect.TypeOf(dst).Elem()
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" && t.Field(i).IsExported() {
			names = append(names, name)
		}
	}
	return names
}

// decodeRequest reads a JSON body into dst, a pointer to a request struct,
// and validates it. Problems come back as a *timeline.ValidationError keyed
// by JSON field name in struct field order. A missing, malformed or
// non-object body validates as an empty object.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}

	verr := timeline.NewValidationError()
	decodeFields(body, dst, verr)

	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate request: %w", err)
		}
		for _, fe := range fieldErrs {
			if verr.Has(fe.Field()) {
				continue
			}
			verr.Add(fe.Field(), ruleMessage(fe))
		}
	}

	if verr.Empty() {
		return nil
	}
	verr.SortFields(fieldOrder(dst))
	return verr
}

// decodeFields decodes each JSON member into its struct field on its own, so
// every wrongly typed field gets a type message. Absent and null members
// leave the zero value.
func decodeFields(body []byte, dst any, verr *timeline.ValidationError) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := jsonName(sf)
		if name == "" || !sf.IsExported() {
			continue
		}
		raw, ok := members[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(raw, v.Field(i).Addr().Interface()); err != nil {
			v.Field(i).SetZero()
			verr.Add(name, typeMessage(name, sf.Type))
		}
	}
}

// rejectRequest answers a request whose body failed validation. References
// that were well formed are still checked so that all offending fields are
// reported together.
func (s *Server) rejectRequest(w http.ResponseWriter, r *http.Request, err error, req any, order []string) {
	var verr *timeline.ValidationError
	if errors.As(err, &verr) {
		if refErr := s.service.AddReferenceErrors(r.Context(), req, verr); refErr != nil {
			s.writeError(w, r, refErr)
			return
		}
		verr.SortFields(order)
	}
	s.writeError(w, r, err)
}

func ruleMessage(fe validator.FieldError) string {
	label := timeline.FieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}

func typeMessage(field string, target reflect.Type) string {
	label := timeline.FieldLabel(field)
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("The %s field must be an integer.", label)
	case reflect.String:
		return fmt.Sprintf("The %s field must be a string.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
