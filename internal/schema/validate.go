// Package schema checks that a set of field definitions is internally
// consistent before any value pool is read or any randomness is drawn.
package schema

import (
	"fmt"
	"math"
	"unicode"

	"paranoia/internal/types"
)

// Validate checks, in order: exactly one player field, unique names, and
// well-formed per-field settings. It returns a *types.SchemaError.
func Validate(fields []types.FieldSpec) error {
	players := 0
	for _, f := range fields {
		if f.IsPlayer {
			players++
		}
	}
	if players != 1 {
		return &types.SchemaError{
			Message: fmt.Sprintf("exactly one field must have `is_player' set, found %d", players),
		}
	}

	if dups := duplicateNames(fields); len(dups) > 0 {
		return types.NewDuplicateFieldsError(dups)
	}

	for _, f := range fields {
		if err := validateField(f); err != nil {
			return err
		}
	}
	return nil
}

// PlayerField returns the single player field. Call it after Validate.
func PlayerField(fields []types.FieldSpec) (types.FieldSpec, bool) {
	for _, f := range fields {
		if f.IsPlayer {
			return f, true
		}
	}
	return types.FieldSpec{}, false
}

func duplicateNames(fields []types.FieldSpec) []string {
	seen := make(map[string]int, len(fields))
	var dups []string
	for _, f := range fields {
		seen[f.Name]++
		if seen[f.Name] == 2 {
			dups = append(dups, f.Name)
		}
	}
	return dups
}

func validateField(f types.FieldSpec) error {
	if f.Name == "" {
		return &types.SchemaError{Message: "field with empty name"}
	}
	for _, r := range f.Name {
		if unicode.IsControl(r) {
			return &types.SchemaError{Field: f.Name, Message: "name contains control characters"}
		}
	}
	if f.IsPlayer && (f.CanSkip || f.CanRepeat) {
		return &types.SchemaError{Field: f.Name, Message: `name field must not be marked "can_repeat" or "can_skip"`}
	}
	if p := f.SkipProbability; p != nil {
		if math.IsNaN(*p) || *p < 0 || *p > 1 {
			return &types.SchemaError{Field: f.Name, Message: fmt.Sprintf("skip_probability %v outside [0, 1]", *p)}
		}
		if !f.CanSkip || !f.CanRepeat {
			return &types.SchemaError{Field: f.Name, Message: `skip_probability only applies to fields marked "can_skip" and "can_repeat"`}
		}
	}
	return nil
}
