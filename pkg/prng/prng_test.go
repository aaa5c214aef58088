package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The exact values here are derived straight from the LCG formula
// (v = ((x+1)*V + seed*M) mod G) and cross-checked against the original
// rutil.c rnext(): with seed=0, x=0 the first draw is V itself (16807), not
// 1 as an illustrative example elsewhere suggests — that example appears to
// transcribe the formula with x's "+1" applied to the wrong multiplier.
func TestNextKnownValues(t *testing.T) {
	var s Seed = 0
	s = Next(s, 0)
	assert.Equal(t, Seed(16807), s)
	s = Next(s, 0)
	assert.Equal(t, Seed(811307504), s)
}

func TestReseedKnownValue(t *testing.T) {
	assert.Equal(t, Seed(1795696871), Reseed(418, 0))
}

func TestReseedIsIndependentOfPriorSeed(t *testing.T) {
	a := Reseed(418, 0)
	b := Next(999999, 1) // arbitrary unrelated prior state
	b = Reseed(418, 0)
	assert.Equal(t, a, b)
}

func TestReseedThenNextFloatIsDeterministic(t *testing.T) {
	s1 := Reseed(42, 7)
	s2 := Reseed(42, 7)
	require.Equal(t, s1, s2)

	for i := 0; i < 10; i++ {
		var v1, v2 float64
		s1, v1 = NextFloat(s1, 5.0)
		s2, v2 = NextFloat(s2, 5.0)
		assert.Equal(t, v1, v2)
	}
}

func TestNextFloatRange(t *testing.T) {
	s := Reseed(1, 2, 3)
	for i := 0; i < 1000; i++ {
		var v float64
		s, v = NextFloat(s, 3.5)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 3.5)
	}
}

func TestSamplePreservesPopulationWhenSmall(t *testing.T) {
	seq := []int{1, 2, 3}
	_, out := Sample(Reseed(1), append([]int(nil), seq...), 10)
	assert.ElementsMatch(t, seq, out)
}

func TestSampleReturnsRequestedSizeAndIsPermutation(t *testing.T) {
	seq := make([]int, 20)
	for i := range seq {
		seq[i] = i
	}
	seen := map[int]bool{}
	_, out := Sample(Reseed(9), append([]int(nil), seq...), 5)
	require.Len(t, out, 5)
	for _, v := range out {
		assert.False(t, seen[v], "duplicate sample value %d", v)
		seen[v] = true
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 20)
	}
}

func TestSampleDeterministicUnderReseed(t *testing.T) {
	base := make([]int, 20)
	for i := range base {
		base[i] = i
	}
	_, out1 := Sample(Reseed(55, 3), append([]int(nil), base...), 6)
	_, out2 := Sample(Reseed(55, 3), append([]int(nil), base...), 6)
	assert.Equal(t, out1, out2)
}
