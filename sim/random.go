package sim

// Linear congruential generator, deterministic across runs
// https://en.wikipedia.org/wiki/Linear_congruential_generator#Parameters_in_common_use
const (
	lcgA = 1664525
	lcgC = 1013904223
	lcgM = 4294967296 // 2^32
)

func newLCG() func() float64 {
	var s uint64 = 1
	return func() float64 {
		s = (lcgA*s + lcgC) % lcgM
		return float64(s) / lcgM
	}
}

// jiggle returns a tiny nonzero offset for coincident bodies
func jiggle(random func() float64) float64 {
	return (random() - 0.5) * 1e-6
}
