// Package assign builds the secret organization: a single loop of targets
// over every player plus the auxiliary field values each player receives.
package assign

import (
	"github.com/google/uuid"

	"paranoia/internal/types"
)

// DefaultSkipProbability applies to skippable, repeatable fields that do not
// set skip_probability themselves.
const DefaultSkipProbability = 0.5

// FieldPool pairs a non-player field with the values it draws from.
type FieldPool struct {
	Spec types.FieldSpec
	Pool types.ValuePool
}

type options struct {
	skipProbability float64
	newID           func() uuid.UUID
}

// Option tunes Generate.
type Option func(*options)

// WithSkipProbability sets the fallback skip chance for skippable,
// repeatable fields.
func WithSkipProbability(p float64) Option {
	return func(o *options) { o.skipProbability = p }
}

// WithID fixes the organization id instead of drawing a fresh UUID.
func WithID(id uuid.UUID) Option {
	return func(o *options) { o.newID = func() uuid.UUID { return id } }
}

// Generate organizes the game. Every count rule is checked before the first
// draw from rng, so a failed call consumes no randomness.
func Generate(targetField string, players types.ValuePool, fields []FieldPool, rng RandomSource, opts ...Option) (*types.Assignment, error) {
	o := options{skipProbability: DefaultSkipProbability, newID: uuid.New}
	for _, opt := range opts {
		opt(&o)
	}

	if err := checkPlayers(players); err != nil {
		return nil, err
	}
	n := len(players)
	for _, fp := range fields {
		if err := checkCount(fp, n); err != nil {
			return nil, err
		}
	}

	a := &types.Assignment{
		ID:          o.newID(),
		TargetField: targetField,
		Fields:      make([]string, 0, len(fields)),
		Players:     append([]string(nil), players...),
		Records:     make(map[string]types.Record, n),
	}

	targets := linkLoop(players, rng)
	serials := shuffledSerials(n, rng)
	for i, p := range a.Players {
		a.Records[p] = types.Record{
			Serial: serials[i],
			Target: targets[p],
			Values: make(map[string]string),
		}
	}

	for _, fp := range fields {
		a.Fields = append(a.Fields, fp.Spec.Name)
		p := o.skipProbability
		if fp.Spec.SkipProbability != nil {
			p = *fp.Spec.SkipProbability
		}
		for i, v := range distribute(fp, n, p, rng) {
			if v == nil {
				continue
			}
			a.Records[a.Players[i]].Values[fp.Spec.Name] = *v
		}
	}

	return a, nil
}

func checkPlayers(players types.ValuePool) error {
	switch len(players) {
	case 0:
		return &types.DegenerateInputError{Players: 0, Reason: "nothing to assign"}
	case 1:
		return &types.DegenerateInputError{Players: 1, Reason: "a player cannot target themself"}
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p] {
			return &types.DegenerateInputError{Players: len(players), Reason: "player " + p + " is listed more than once"}
		}
		seen[p] = true
	}
	return nil
}

func checkCount(fp FieldPool, n int) error {
	m := len(fp.Pool)
	name := fp.Spec.Name
	switch {
	case !fp.Spec.CanSkip && !fp.Spec.CanRepeat:
		if m != n {
			return &types.CountError{Field: name, Rule: types.CountExactly, Want: n, Got: m}
		}
	case fp.Spec.CanSkip && !fp.Spec.CanRepeat:
		if m > n {
			return &types.CountError{Field: name, Rule: types.CountAtMost, Want: n, Got: m}
		}
	default:
		if m < 1 {
			return &types.CountError{Field: name, Rule: types.CountAtLeast, Want: 1, Got: m}
		}
	}
	if !fp.Spec.CanRepeat {
		seen := make(map[string]bool, m)
		for _, v := range fp.Pool {
			if seen[v] {
				return &types.CountError{Field: name, Rule: types.CountUnique, Value: v}
			}
			seen[v] = true
		}
	}
	return nil
}

// linkLoop shuffles the players and points each at its successor, wrapping
// the last to the first. The result is always one cycle of length n.
func linkLoop(players types.ValuePool, rng RandomSource) map[string]string {
	order := append([]string(nil), players...)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	targets := make(map[string]string, len(order))
	for i, p := range order {
		targets[p] = order[(i+1)%len(order)]
	}
	return targets
}

// shuffledSerials returns a uniformly random permutation of 0..n-1.
func shuffledSerials(n int, rng RandomSource) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	rng.Shuffle(n, func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}

// distribute returns one entry per player index; nil means skipped.
func distribute(fp FieldPool, n int, skipP float64, rng RandomSource) []*string {
	pool := fp.Pool
	out := make([]*string, n)
	switch {
	case !fp.Spec.CanSkip && !fp.Spec.CanRepeat:
		vals := shuffled(pool, rng)
		for i := range out {
			out[i] = &vals[i]
		}
	case !fp.Spec.CanSkip && fp.Spec.CanRepeat:
		for i := range out {
			v := pool[rng.Intn(len(pool))]
			out[i] = &v
		}
	case fp.Spec.CanSkip && !fp.Spec.CanRepeat:
		vals := shuffled(pool, rng)
		idx := shuffledSerials(n, rng)
		for k, v := range vals {
			out[idx[k]] = &v
		}
	default:
		for i := range out {
			if rng.Float64() < skipP {
				continue
			}
			v := pool[rng.Intn(len(pool))]
			out[i] = &v
		}
	}
	return out
}

func shuffled(pool types.ValuePool, rng RandomSource) []string {
	vals := append([]string(nil), pool...)
	rng.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
	return vals
}
