// Package radial assigns cluster centers to group keys on up to two
// concentric rings.
package radial

import (
	"math"

	"github.com/teranos/songnet/errors"
)

// secondRingScale grows the second ring to r*(1+1/1.8)
const secondRingScale = 1 + 1/1.8

// Point is a position on the canvas
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config positions the rings. Angles are in degrees.
type Config struct {
	Center    Point
	Radius    float64
	Increment float64
	Start     float64
}

// DefaultConfig returns radius 200, increment 20 and start -120 around the origin
func DefaultConfig() Config {
	return Config{Radius: 200, Increment: 20, Start: -120}
}

// Allocator caches one position per key. SetKeys replaces the cache wholesale.
type Allocator struct {
	cfg Config

	// current ring state
	radius    float64
	increment float64
	cursor    float64

	positions map[string]Point
	order     []string
}

// New validates cfg and returns an empty allocator
func New(cfg Config) (*Allocator, error) {
	if cfg.Increment <= 0 || math.IsNaN(cfg.Increment) {
		return nil, errors.Newf("radial increment must be > 0, got %g", cfg.Increment)
	}
	if cfg.Radius < 0 {
		return nil, errors.Newf("radial radius must be >= 0, got %g", cfg.Radius)
	}

	a := &Allocator{cfg: cfg}
	a.reset()
	return a, nil
}

// Config returns the configuration the allocator was built with
func (a *Allocator) Config() Config {
	return a.cfg
}

func (a *Allocator) reset() {
	a.radius = a.cfg.Radius
	a.increment = a.cfg.Increment
	a.cursor = a.cfg.Start
	a.positions = make(map[string]Point)
	a.order = nil
}

// Capacity is how many keys fit on the first ring
func (a *Allocator) Capacity() int {
	return int(math.Floor(360 / a.cfg.Increment))
}

// SetKeys clears the cache and assigns every key in order.
//
// The first ring holds up to Capacity keys; fewer keys widen the increment to
// spread evenly. Overflow goes on a larger second ring, evenly spaced, with
// the angular cursor continuing from where the first ring stopped.
func (a *Allocator) SetKeys(keys []string) {
	a.reset()

	n := len(keys)
	if n == 0 {
		return
	}

	capacity := a.Capacity()
	if n < capacity {
		a.increment = 360 / float64(n)
	}

	first := keys
	var rest []string
	if n > capacity {
		first, rest = keys[:capacity], keys[capacity:]
	}

	for _, k := range first {
		a.allocate(k)
	}

	if len(rest) == 0 {
		return
	}

	a.radius = a.cfg.Radius * secondRingScale
	a.increment = 360 / float64(len(rest))
	for _, k := range rest {
		a.allocate(k)
	}
}

// Place returns the cached position for key. An unknown key takes the next
// slot at the current cursor on the current ring.
func (a *Allocator) Place(key string) Point {
	if p, ok := a.positions[key]; ok {
		return p
	}
	return a.allocate(key)
}

// Keys returns assigned keys in allocation order
func (a *Allocator) Keys() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Len is the number of cached positions
func (a *Allocator) Len() int {
	return len(a.order)
}

func (a *Allocator) allocate(key string) Point {
	p := polar(a.cfg.Center, a.cursor, a.radius)
	if _, exists := a.positions[key]; !exists {
		a.order = append(a.order, key)
	}
	a.positions[key] = p
	a.cursor += a.increment
	return p
}

func polar(center Point, angleDeg, radius float64) Point {
	rad := angleDeg * math.Pi / 180
	return Point{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y + radius*math.Sin(rad),
	}
}
