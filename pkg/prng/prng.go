// Package prng implements the 32-bit linear-congruential generator shared by
// every zone worker. The contract is deliberately narrow and fully
// deterministic: the same seed and the same draw sequence must produce the
// same values on every worker, since a rat's PRNG state migrates across
// zones along with the rat itself.
package prng

// Seed is a PRNG state value in [0, Modulus).
type Seed uint32

const (
	// Modulus is G = 2^31 - 1.
	Modulus = 2147483647
	// multiplierM and multiplierV are the LCG's two multipliers.
	multiplierM = 48271
	multiplierV = 16807
	// InitSeed is the fixed value reseed() starts from.
	InitSeed Seed = 418
)

// Next advances seed by one draw, folding in x, and returns the new value.
// Both x and the result lie in [0, Modulus).
func Next(seed Seed, x uint32) Seed {
	v := (uint64(x)+1)*multiplierV + uint64(seed)*multiplierM
	return Seed(v % Modulus)
}

// Reseed resets seed to InitSeed and folds in every element of list, in
// order. Used to derive a rat's initial PRNG state from (global seed, rat
// id) so that every zone that ever holds rat r computes the identical
// starting seed before the rat first moves.
func Reseed(list ...uint32) Seed {
	seed := InitSeed
	for _, x := range list {
		seed = Next(seed, x)
	}
	return seed
}

// NextFloat draws the next value from seed and scales it into [0, upper),
// returning the new seed alongside the draw so callers can thread state
// through without a pointer.
func NextFloat(seed Seed, upper float64) (Seed, float64) {
	next := Next(seed, 0)
	return next, float64(next) / float64(Modulus) * upper
}

// Sample draws up to maxSample distinct elements of seq without
// replacement, using the Fisher-Yates-style in-place selection from the
// original rat simulator's math kernel. seq is permuted during selection
// and the swaps are undone before returning, so it ends in its original
// order. Returns the (possibly truncated) sample and the advanced seed.
func Sample(seed Seed, seq []int, maxSample int) (Seed, []int) {
	population := len(seq)
	if population <= maxSample {
		out := make([]int, population)
		copy(out, seq)
		return seed, out
	}

	scratch := make([]int, maxSample)
	cur := seed
	for i := 0; i < maxSample; i++ {
		var w float64
		cur, w = NextFloat(cur, 1.0)
		idx := i + int(w*float64(population-i))
		scratch[i] = idx
		seq[idx], seq[i] = seq[i], seq[idx]
	}

	out := make([]int, maxSample)
	copy(out, seq[:maxSample])

	for i := maxSample - 1; i >= 0; i-- {
		idx := scratch[i]
		seq[idx], seq[i] = seq[i], seq[idx]
	}

	return cur, out
}
