package graph

import "math"

// radiusExponent makes node area, not radius, track playcount
const radiusExponent = 0.5

// PowScale maps a domain onto a range through x^Exponent
type PowScale struct {
	Exponent  float64
	DomainMin float64
	DomainMax float64
	RangeMin  float64
	RangeMax  float64
}

// NewRadiusScale builds the playcount -> radius scale over the given extent
func NewRadiusScale(minPlaycount, maxPlaycount float64, opts BuildOptions) PowScale {
	return PowScale{
		Exponent:  radiusExponent,
		DomainMin: minPlaycount,
		DomainMax: maxPlaycount,
		RangeMin:  opts.MinRadius,
		RangeMax:  opts.MaxRadius,
	}
}

func signedPow(x, exp float64) float64 {
	if x < 0 {
		return -math.Pow(-x, exp)
	}
	return math.Pow(x, exp)
}

// Scale maps v into [RangeMin, RangeMax]. A degenerate domain maps everything
// to RangeMin. Values outside the domain are clamped.
func (s PowScale) Scale(v float64) float64 {
	lo := signedPow(s.DomainMin, s.Exponent)
	hi := signedPow(s.DomainMax, s.Exponent)
	if hi == lo || math.IsNaN(hi-lo) {
		return s.RangeMin
	}

	t := (signedPow(v, s.Exponent) - lo) / (hi - lo)
	t = math.Max(0, math.Min(1, t))
	return s.RangeMin + t*(s.RangeMax-s.RangeMin)
}

// extent returns the min and max playcount, or (0, 0) for no nodes
func extent(nodes []RawNode) (float64, float64) {
	if len(nodes) == 0 {
		return 0, 0
	}
	lo, hi := nodes[0].Playcount, nodes[0].Playcount
	for _, n := range nodes[1:] {
		lo = math.Min(lo, n.Playcount)
		hi = math.Max(hi, n.Playcount)
	}
	return lo, hi
}
