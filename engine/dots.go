package engine

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/goki/mat32"
)

const (
	minDotLife = 0.1
	maxDotLife = 0.5
)

type Dot struct {
	Pos   mat32.Vec2 // relative to the cloud centre
	Color Color
	Life  time.Duration
	Born  time.Time
}

// DotCloud is the regenerating cue. Colours are assigned once; only
// positions and lifetimes are resampled.
type DotCloud struct {
	Radius float64
	Dots   []Dot
	rng    *rand.Rand
}

// SplitDots converts the primary colour proportion into dot counts.
func SplitDots(n int, primary float64) (nPrimary, nSecondary int) {
	nPrimary = int(math.Round(primary * float64(n)))
	return nPrimary, n - nPrimary
}

func NewDotCloud(radius float64, nPrimary, nSecondary int, now time.Time, rng *rand.Rand) *DotCloud {
	c := &DotCloud{Radius: radius, Dots: make([]Dot, 0, nPrimary+nSecondary), rng: rng}
	for i := 0; i < nPrimary; i++ {
		c.Dots = append(c.Dots, c.spawn(Primary, now))
	}
	for i := 0; i < nSecondary; i++ {
		c.Dots = append(c.Dots, c.spawn(Secondary, now))
	}
	rng.Shuffle(len(c.Dots), func(i, j int) { c.Dots[i], c.Dots[j] = c.Dots[j], c.Dots[i] })
	return c
}

func (c *DotCloud) spawn(color Color, now time.Time) Dot {
	return Dot{Pos: SamplePosition(c.rng, c.Radius), Color: color, Life: c.lifetime(), Born: now}
}

func (c *DotCloud) lifetime() time.Duration {
	return seconds(uniform(c.rng, minDotLife, maxDotLife))
}

// Tick replaces every expired dot in place and returns the current set.
func (c *DotCloud) Tick(now time.Time) []Dot {
	for i := range c.Dots {
		d := &c.Dots[i]
		if now.Sub(d.Born) >= d.Life {
			d.Pos = SamplePosition(c.rng, c.Radius)
			d.Life = c.lifetime()
			d.Born = now
		}
	}
	return c.Dots
}

func (c *DotCloud) Counts() (primary, secondary int) {
	for _, d := range c.Dots {
		if d.Color == Primary {
			primary++
		} else {
			secondary++
		}
	}
	return primary, secondary
}

// SamplePosition draws x uniformly across the diameter and y uniformly on
// the chord at x. Density is uniform along x, not over the disk area, so
// dots crowd toward the left and right edges. Existing datasets depend on
// this distribution; do not replace it with area-uniform sampling.
func SamplePosition(rng *rand.Rand, radius float64) mat32.Vec2 {
	x := uniform(rng, -radius, radius)
	half := math.Sqrt(math.Max(0, radius*radius-x*x))
	y := uniform(rng, -half, half)
	return mat32.Vec2{X: float32(x), Y: float32(y)}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
