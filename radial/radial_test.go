package radial

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func keys(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("artist-%02d", i)
	}
	return out
}

func distance(p, c Point) float64 {
	return math.Hypot(p.X-c.X, p.Y-c.Y)
}

func angleOf(p, c Point) float64 {
	return math.Atan2(p.Y-c.Y, p.X-c.X) * 180 / math.Pi
}

func sameAngle(t *testing.T, want, got float64) {
	t.Helper()
	diff := math.Mod(want-got, 360)
	if diff < 0 {
		diff += 360
	}
	if diff > 180 {
		diff = 360 - diff
	}
	assert.InDelta(t, 0, diff, 1e-6, "angle want %g got %g", want, got)
}

func newAllocator(t *testing.T, cfg Config) *Allocator {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Radius: 200, Increment: 0})
	assert.Error(t, err)

	_, err = New(Config{Radius: 200, Increment: -5})
	assert.Error(t, err)

	_, err = New(Config{Radius: -1, Increment: 20})
	assert.Error(t, err)

	_, err = New(DefaultConfig())
	assert.NoError(t, err)
}

func TestSetKeys_SingleRingWidened(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Center = Point{X: 480, Y: 400}
	a := newAllocator(t, cfg)

	a.SetKeys(keys(10))
	require.Equal(t, 18, a.Capacity())

	// 10 < 18, so the increment widens to 36 degrees
	for i, k := range keys(10) {
		p := a.Place(k)
		assert.InDelta(t, 200, distance(p, cfg.Center), eps, k)
		sameAngle(t, -120+float64(i)*36, angleOf(p, cfg.Center))
	}
	assert.Equal(t, keys(10), a.Keys())
}

func TestSetKeys_TwoRings(t *testing.T) {
	cfg := DefaultConfig()
	a := newAllocator(t, cfg)

	all := keys(30)
	a.SetKeys(all)

	outer := 200 * (1 + 1/1.8)
	for i, k := range all {
		p := a.Place(k)
		if i < 18 {
			assert.InDelta(t, 200, distance(p, cfg.Center), eps, k)
			sameAngle(t, -120+float64(i)*20, angleOf(p, cfg.Center))
			continue
		}
		// second ring: 12 keys at 30 degrees, cursor continues from 240
		assert.InDelta(t, outer, distance(p, cfg.Center), 1e-6, k)
		sameAngle(t, 240+float64(i-18)*30, angleOf(p, cfg.Center))
	}
	assert.Equal(t, 30, a.Len())
}

func TestSetKeys_ExactCapacity(t *testing.T) {
	a := newAllocator(t, DefaultConfig())
	a.SetKeys(keys(18))

	for _, k := range keys(18) {
		assert.InDelta(t, 200, distance(a.Place(k), Point{}), eps)
	}
}

func TestPlace_Stable(t *testing.T) {
	a := newAllocator(t, DefaultConfig())
	a.SetKeys(keys(5))

	first := a.Place("artist-03")
	second := a.Place("artist-03")
	assert.Equal(t, first, second)

	adhoc := a.Place("unknown")
	assert.Equal(t, adhoc, a.Place("unknown"))
	assert.Equal(t, 6, a.Len())
}

func TestPlace_UnknownUsesCurrentCursor(t *testing.T) {
	a := newAllocator(t, DefaultConfig())
	a.SetKeys(keys(4)) // increment 90: -120, -30, 60, 150; cursor at 240

	p := a.Place("late")
	assert.InDelta(t, 200, distance(p, Point{}), eps)
	sameAngle(t, 240, angleOf(p, Point{}))
}

func TestSetKeys_ZeroKeys(t *testing.T) {
	a := newAllocator(t, DefaultConfig())
	a.SetKeys(keys(3))
	a.SetKeys(nil)

	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Keys())

	// ad hoc key lands at the start angle on the first ring
	p := a.Place("x")
	sameAngle(t, -120, angleOf(p, Point{}))
	assert.InDelta(t, 200, distance(p, Point{}), eps)
}

func TestSetKeys_ReplacesCache(t *testing.T) {
	a := newAllocator(t, DefaultConfig())
	a.SetKeys([]string{"a", "b"})
	before := a.Place("a")

	a.SetKeys([]string{"b", "a"})
	after := a.Place("a")

	assert.NotEqual(t, before, after, "order change moves the key")
	assert.Equal(t, []string{"b", "a"}, a.Keys())

	// same keys, same order: same positions
	a.SetKeys([]string{"b", "a"})
	assert.Equal(t, after, a.Place("a"))
}
