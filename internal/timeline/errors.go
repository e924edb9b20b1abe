package timeline

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects per-field messages for a rejected request.
// Fields keep the order in which they were added so the first message is stable.
type ValidationError struct {
	fields   []string
	Messages map[string][]string
}

// NewValidationError returns an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Messages: map[string][]string{}}
}

// Add records a message for field.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Messages[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.Messages[field] = append(e.Messages[field], message)
}

// Empty reports whether no message was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.fields) == 0
}

// First returns the first recorded message.
func (e *ValidationError) First() string {
	if e.Empty() {
		return ""
	}
	return e.Messages[e.fields[0]][0]
}

// Has reports whether field already has a message.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Messages[field]
	return ok
}

// Count returns the number of messages across all fields.
func (e *ValidationError) Count() int {
	n := 0
	for _, msgs := range e.Messages {
		n += len(msgs)
	}
	return n
}

// SortFields reorders fields to follow order. Fields missing from order keep
// their relative position after the listed ones.
func (e *ValidationError) SortFields(order []string) {
	rank := make(map[string]int, len(order))
	for i, f := range order {
		rank[f] = i
	}
	pos := func(f string) int {
		if r, ok := rank[f]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(e.fields, func(i, j int) bool {
		return pos(e.fields[i]) < pos(e.fields[j])
	})
}

// Fields returns the fields with messages in insertion order.
func (e *ValidationError) Fields() []string {
	return append([]string(nil), e.fields...)
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Messages[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// OwnershipError reports a broken link in the recruiter → candidate → timeline → step chain.
type OwnershipError struct {
	Relation string
	Key      string
	Message  string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("ownership check %s failed: %s", e.Relation, e.Message)
}

// DuplicateStepCategoryError indicates the timeline already has a step of the category.
type DuplicateStepCategoryError struct {
	TimelineID     int64
	StepCategoryID int64
}

// DuplicateStepCategoryKey is the error key reported for DuplicateStepCategoryError.
const DuplicateStepCategoryKey = "step_category"

// DuplicateStepCategoryMessage is the client-facing message for DuplicateStepCategoryError.
const DuplicateStepCategoryMessage = "A step category needs to exist only once per timeline"

func (e *DuplicateStepCategoryError) Error() string {
	return fmt.Sprintf("step category %d already used on timeline %d", e.StepCategoryID, e.TimelineID)
}

// NotFoundError indicates the resource addressed by the request path does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Resource, e.ID)
}
