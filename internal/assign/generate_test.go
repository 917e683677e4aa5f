package assign

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paranoia/internal/types"
)

// countingSource records how often the generator touched the randomness.
type countingSource struct {
	r     *rand.Rand
	calls int
}

func newCounting(seed int64) *countingSource {
	return &countingSource{r: rand.New(rand.NewSource(seed))}
}

func (c *countingSource) Intn(n int) int { c.calls++; return c.r.Intn(n) }

func (c *countingSource) Float64() float64 { c.calls++; return c.r.Float64() }

func (c *countingSource) Shuffle(n int, swap func(i, j int)) { c.calls++; c.r.Shuffle(n, swap) }

func players(n int) types.ValuePool {
	p := make(types.ValuePool, n)
	for i := range p {
		p[i] = fmt.Sprintf("player-%02d", i)
	}
	return p
}

func pool(prefix string, m int) types.ValuePool {
	p := make(types.ValuePool, m)
	for i := range p {
		p[i] = fmt.Sprintf("%s-%d", prefix, i)
	}
	return p
}

// assertSingleLoop follows target from the first player N times and checks
// every player is visited exactly once before returning to the start.
func assertSingleLoop(t *testing.T, a *types.Assignment) {
	t.Helper()
	n := a.Len()
	start := a.Players[0]
	seen := map[string]bool{}
	cur := start
	for i := 0; i < n; i++ {
		require.False(t, seen[cur], "player %s visited twice", cur)
		seen[cur] = true
		next := a.Records[cur].Target
		require.NotEqual(t, cur, next, "fixed point at %s", cur)
		cur = next
	}
	require.Equal(t, start, cur, "loop must close after exactly N steps")
	require.Len(t, seen, n)
	require.NoError(t, a.CheckLoop())
}

func TestGenerate_SingleLoopForAllSizes(t *testing.T) {
	for n := 2; n <= 40; n++ {
		for seed := int64(0); seed < 5; seed++ {
			a, err := Generate("Target", players(n), nil, rand.New(rand.NewSource(seed)))
			require.NoError(t, err, "n=%d seed=%d", n, seed)
			assertSingleLoop(t, a)
		}
	}
}

func TestGenerate_SecureSource(t *testing.T) {
	a, err := Generate("Target", players(12), nil, NewSecureSource())
	require.NoError(t, err)
	assertSingleLoop(t, a)
	assert.NotEqual(t, uuid.Nil, a.ID)
}

func TestGenerate_SerialsArePermutation(t *testing.T) {
	a, err := Generate("Target", players(9), nil, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, p := range a.Players {
		s := a.Records[p].Serial
		require.GreaterOrEqual(t, s, 0)
		require.Less(t, s, 9)
		require.False(t, seen[s], "serial %d reused", s)
		seen[s] = true
	}
}

func TestGenerate_Degenerate(t *testing.T) {
	tests := []struct {
		name    string
		players types.ValuePool
	}{
		{"empty", nil},
		{"single", types.ValuePool{"A"}},
		{"duplicate", types.ValuePool{"A", "B", "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newCounting(1)
			_, err := Generate("Target", tt.players, nil, src)
			var de *types.DegenerateInputError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Zero(t, src.calls)
		})
	}
}

func TestGenerate_CountErrorsBeforeAnyDraw(t *testing.T) {
	tests := []struct {
		name string
		spec types.FieldSpec
		pool types.ValuePool
		rule types.CountRule
	}{
		{"bijection short", types.FieldSpec{Name: "Weapon"}, pool("w", 4), types.CountExactly},
		{"bijection long", types.FieldSpec{Name: "Weapon"}, pool("w", 6), types.CountExactly},
		{"repeat empty", types.FieldSpec{Name: "Weapon", CanRepeat: true}, nil, types.CountAtLeast},
		{"skip too many", types.FieldSpec{Name: "Weapon", CanSkip: true}, pool("w", 6), types.CountAtMost},
		{"skip repeat empty", types.FieldSpec{Name: "Weapon", CanSkip: true, CanRepeat: true}, nil, types.CountAtLeast},
		{"duplicate value", types.FieldSpec{Name: "Weapon"}, types.ValuePool{"a", "b", "c", "d", "a"}, types.CountUnique},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newCounting(1)
			fields := []FieldPool{
				{Spec: types.FieldSpec{Name: "Location", CanRepeat: true}, Pool: pool("l", 2)},
				{Spec: tt.spec, Pool: tt.pool},
			}
			_, err := Generate("Target", players(5), fields, src)
			var ce *types.CountError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, "Weapon", ce.Field)
			assert.Equal(t, tt.rule, ce.Rule)
			assert.Zero(t, src.calls, "no randomness may be drawn before the count check")
		})
	}
}

func TestGenerate_Bijection(t *testing.T) {
	n := 7
	fields := []FieldPool{{Spec: types.FieldSpec{Name: "Weapon"}, Pool: pool("w", n)}}
	a, err := Generate("Target", players(n), fields, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	used := map[string]bool{}
	for _, p := range a.Players {
		v, ok := a.Records[p].Value("Weapon")
		require.True(t, ok, "%s has no weapon", p)
		require.False(t, used[v], "weapon %s given twice", v)
		used[v] = true
	}
	assert.Len(t, used, n)
	assert.Equal(t, []string{"Weapon"}, a.Fields)
}

func TestGenerate_RepeatNoSkip(t *testing.T) {
	fields := []FieldPool{{Spec: types.FieldSpec{Name: "Location", CanRepeat: true}, Pool: types.ValuePool{"kitchen", "garden"}}}
	a, err := Generate("Target", players(10), fields, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	for _, p := range a.Players {
		v, ok := a.Records[p].Value("Location")
		require.True(t, ok)
		assert.Contains(t, []string{"kitchen", "garden"}, v)
	}
}

func TestGenerate_SkipNoRepeat(t *testing.T) {
	for m := 0; m <= 8; m++ {
		t.Run(fmt.Sprintf("m=%d", m), func(t *testing.T) {
			fields := []FieldPool{{Spec: types.FieldSpec{Name: "Clue", CanSkip: true}, Pool: pool("c", m)}}
			a, err := Generate("Target", players(8), fields, rand.New(rand.NewSource(int64(m))))
			require.NoError(t, err)

			got := 0
			used := map[string]bool{}
			for _, p := range a.Players {
				v, ok := a.Records[p].Value("Clue")
				if !ok {
					continue
				}
				got++
				require.False(t, used[v], "clue %s repeated", v)
				used[v] = true
			}
			assert.Equal(t, m, got, "exactly M players receive a value")
		})
	}
}

func TestGenerate_SkipRepeatProbability(t *testing.T) {
	spec := types.FieldSpec{Name: "Bonus", CanSkip: true, CanRepeat: true}
	fields := []FieldPool{{Spec: spec, Pool: types.ValuePool{"x"}}}

	a, err := Generate("Target", players(30), fields, rand.New(rand.NewSource(2)), WithSkipProbability(1))
	require.NoError(t, err)
	for _, p := range a.Players {
		_, ok := a.Records[p].Value("Bonus")
		assert.False(t, ok)
	}

	zero := 0.0
	spec.SkipProbability = &zero
	fields[0].Spec = spec
	a, err = Generate("Target", players(30), fields, rand.New(rand.NewSource(2)), WithSkipProbability(1))
	require.NoError(t, err)
	for _, p := range a.Players {
		v, ok := a.Records[p].Value("Bonus")
		assert.True(t, ok, "per-field probability overrides the default")
		assert.Equal(t, "x", v)
	}
}

func TestGenerate_DeterministicWithSeed(t *testing.T) {
	id := uuid.MustParse("6f1c1a43-8f5e-4d9a-9b4b-0c5d2f7f0d11")
	fields := []FieldPool{{Spec: types.FieldSpec{Name: "Weapon"}, Pool: pool("w", 6)}}

	a1, err := Generate("Target", players(6), fields, rand.New(rand.NewSource(42)), WithID(id))
	require.NoError(t, err)
	a2, err := Generate("Target", players(6), fields, rand.New(rand.NewSource(42)), WithID(id))
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, id, a1.ID)
}

func TestGenerate_FourPlayerScenario(t *testing.T) {
	a, err := Generate("Target", types.ValuePool{"A", "B", "C", "D"}, nil, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assertSingleLoop(t, a)
	assert.Len(t, a.Loop("A"), 4)
	assert.Equal(t, "Target", a.TargetField)
}

func TestGenerate_WeaponScenario(t *testing.T) {
	ps := types.ValuePool{"A", "B", "C", "D"}
	weapon := types.FieldSpec{Name: "Weapon"}

	a, err := Generate("Target", ps, []FieldPool{{Spec: weapon, Pool: types.ValuePool{"rope", "spoon", "pillow", "banana"}}}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	used := map[string]bool{}
	for _, p := range ps {
		v, ok := a.Records[p].Value("Weapon")
		require.True(t, ok)
		used[v] = true
	}
	assert.Len(t, used, 4)

	_, err = Generate("Target", ps, []FieldPool{{Spec: weapon, Pool: types.ValuePool{"rope", "spoon", "pillow"}}}, rand.New(rand.NewSource(1)))
	var ce *types.CountError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 4, ce.Want)
	assert.Equal(t, 3, ce.Got)
}
