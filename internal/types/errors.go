package types

import (
	"fmt"
	"strings"
)

// SchemaError reports an inconsistent set of field definitions.
type SchemaError struct {
	Field   string // offending field, empty when the problem spans fields
	Message string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "schema: " + e.Message
	}
	return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
}

// CountRule names the constraint a value pool failed.
type CountRule string

const (
	CountExactly CountRule = "exactly"
	CountAtLeast CountRule = "at least"
	CountAtMost  CountRule = "at most"
	CountUnique  CountRule = "unique"
)

// CountError reports a value pool whose size does not fit its field flags and
// the number of players.
type CountError struct {
	Field string
	Rule  CountRule
	Want  int
	Got   int
	Value string // repeated entry, for CountUnique
}

func (e *CountError) Error() string {
	switch e.Rule {
	case CountUnique:
		return fmt.Sprintf("field %q lists %q more than once, and is not marked \"can_repeat\"", e.Field, e.Value)
	case CountExactly:
		return fmt.Sprintf("field %q needs exactly %d entries, got %d", e.Field, e.Want, e.Got)
	case CountAtMost:
		return fmt.Sprintf("field %q has too many entries, and is not marked \"can_skip\". Got %d, need at most %d", e.Field, e.Got, e.Want)
	default:
		return fmt.Sprintf("field %q has too few entries, and is not marked \"can_repeat\". Got %d, need at least %d", e.Field, e.Got, e.Want)
	}
}

// DegenerateInputError reports a player pool that cannot form a loop.
type DegenerateInputError struct {
	Players int
	Reason  string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("cannot organize %d player(s): %s", e.Players, e.Reason)
}

// CodecError reports a malformed organization file.
type CodecError struct {
	Stage string // "reveal", "header", "body", "structure"
	Err   error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("organization file is corrupt (%s): %v", e.Stage, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// MissingResourceError reports an input file that does not exist.
type MissingResourceError struct {
	Path string
	What string
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

// joinQuoted formats names as a comma-separated, quoted list.
func joinQuoted(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(q, ", ")
}

// NewDuplicateFieldsError builds the SchemaError for repeated field names.
func NewDuplicateFieldsError(names []string) *SchemaError {
	return &SchemaError{Message: "duplicate field names: " + joinQuoted(names)}
}
