// Package types holds the data model shared by the organize and print runs:
// field definitions, value pools, the secret assignment, and the error kinds
// every stage reports.
package types

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// FieldSpec describes one per-player attribute from paranoia.yml.
// Exactly one field in a configuration is the player field.
type FieldSpec struct {
	Name      string `yaml:"name"`
	IsPlayer  bool   `yaml:"is_player"`
	CanSkip   bool   `yaml:"can_skip"`
	CanRepeat bool   `yaml:"can_repeat"`

	// SkipProbability is the chance a player gets no value for a field that
	// is both skippable and repeatable. Nil means the generator default.
	SkipProbability *float64 `yaml:"skip_probability,omitempty"`
}

// ValuePool is the ordered list of values a field draws from. For the player
// field it enumerates the players.
type ValuePool []string

// Record is what one player's card reveals once unfolded.
type Record struct {
	Serial int
	Target string
	Values map[string]string // absent key = unset for this player
}

// Value returns the value assigned for field, or false when it was skipped.
func (r Record) Value(field string) (string, bool) {
	v, ok := r.Values[field]
	return v, ok
}

// Assignment is one complete organization of the game.
type Assignment struct {
	ID          uuid.UUID
	TargetField string   // name of the is_player field
	Fields      []string // non-player fields, configuration order
	Players     []string // canonical order (player pool order)
	Records     map[string]Record
}

// Len returns the number of players.
func (a *Assignment) Len() int {
	return len(a.Players)
}

// Loop returns the players in target order starting at start, stopping when
// the walk returns to start or after Len steps, whichever comes first.
func (a *Assignment) Loop(start string) []string {
	loop := make([]string, 0, len(a.Players))
	cur := start
	for i := 0; i < len(a.Players); i++ {
		loop = append(loop, cur)
		rec, ok := a.Records[cur]
		if !ok {
			break
		}
		cur = rec.Target
		if cur == start {
			break
		}
	}
	return loop
}

// CheckLoop reports whether Target forms a single cycle with no fixed point
// covering every player exactly once.
func (a *Assignment) CheckLoop() error {
	n := len(a.Players)
	if n < 2 {
		return fmt.Errorf("loop needs at least 2 players, have %d", n)
	}
	if len(a.Records) != n {
		return fmt.Errorf("%d records for %d players", len(a.Records), n)
	}
	start := a.Players[0]
	seen := make(map[string]bool, n)
	cur := start
	for i := 0; i < n; i++ {
		if seen[cur] {
			return fmt.Errorf("loop closes after %d players, expected %d", i, n)
		}
		seen[cur] = true
		rec, ok := a.Records[cur]
		if !ok {
			return fmt.Errorf("no record for %q", cur)
		}
		if rec.Target == cur {
			return fmt.Errorf("%q targets themself", cur)
		}
		cur = rec.Target
	}
	if cur != start {
		return fmt.Errorf("loop does not return to its start after %d players", n)
	}
	return nil
}

// BySerial returns the players ordered by card serial.
func (a *Assignment) BySerial() []string {
	out := append([]string(nil), a.Players...)
	sort.Slice(out, func(i, j int) bool {
		return a.Records[out[i]].Serial < a.Records[out[j]].Serial
	})
	return out
}
