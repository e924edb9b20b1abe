// Package schemas holds the JSON Schema contracts of the API responses. The
// server tests check every response body against them.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed contracts/api.json
var contracts embed.FS

const contractsPath = "contracts/api.json"

// Contract names accepted by Validate.
const (
	TimelineResponse = "timeline_response"
	StepResponse     = "step_response"
	StatusResponse   = "status_response"
	Error            = "error"
	User             = "user"
	Health           = "health"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	loadOnce    sync.Once
	definitions map[string]json.RawMessage
	loadErr     error

	compiledMu sync.Mutex
	compiled   = map[string]*gojsonschema.Schema{}
)

func loadDefinitions() (map[string]json.RawMessage, error) {
	loadOnce.Do(func() {
		data, err := contracts.ReadFile(contractsPath)
		if err != nil {
			loadErr = &SchemaLoadError{Path: contractsPath, Message: "embedded file missing", Cause: err}
			return
		}
		var doc struct {
			Definitions map[string]json.RawMessage `json:"definitions"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			loadErr = &SchemaLoadError{Path: contractsPath, Message: "invalid JSON", Cause: err}
			return
		}
		definitions = doc.Definitions
	})
	return definitions, loadErr
}

// Names lists the contracts that Validate accepts.
func Names() []string {
	defs, err := loadDefinitions()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func schemaFor(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[name]; ok {
		return s, nil
	}

	defs, err := loadDefinitions()
	if err != nil {
		return nil, err
	}
	if _, ok := defs[name]; !ok {
		return nil, &SchemaLoadError{Path: contractsPath + "#/definitions/" + name, Message: "unknown contract"}
	}

	root := map[string]any{
		"definitions": defs,
		"$ref":        "#/definitions/" + name,
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(root))
	if err != nil {
		return nil, &SchemaLoadError{Path: contractsPath + "#/definitions/" + name, Message: "schema compile failed", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// Validate checks a JSON document against the named contract.
func Validate(name string, body []byte) error {
	schema, err := schemaFor(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return resultError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
