package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

var ErrPoolExhausted = errors.New("difficulty pool exhausted")

const (
	NumSwitches = 4
	MaxStreak   = 4

	// A walk is abandoned when a forced change finds only the last label in
	// the pool. Practice pools hit this in about one walk in a hundred at 46
	// to 48 trials and one in eight at 120; regular pools practically never.
	planAttempts = 64
)

// Plan is the per-block schedule: one difficulty per trial and the trials
// after which the context flips. Difficulties already carries the forced
// label at every switch trial.
type Plan struct {
	Difficulties       []Difficulty
	Switches           []int
	SwitchDifficulties []Difficulty
}

func (p *Plan) IsSwitch(trial int) bool {
	return slices.Contains(p.Switches, trial)
}

type Planner struct {
	nTrials  int
	practice bool
	rng      *rand.Rand
}

// NewPlanner checks that the pool can always supply n trials and that no
// two switch trials can be adjacent.
func NewPlanner(nTrials int, practice bool, rng *rand.Rand) (*Planner, error) {
	if nTrials < MinTrials {
		return nil, fmt.Errorf("plan %d trials: need at least %d", nTrials, MinTrials)
	}
	p := &Planner{nTrials: nTrials, practice: practice, rng: rng}
	if lo, _ := p.switchOffsets(); lo < 2 {
		return nil, fmt.Errorf("plan %d trials: switch offset %d", nTrials, lo)
	}
	if supply := len(p.pool()); supply < nTrials+1 {
		return nil, fmt.Errorf("plan %d trials: pool holds %d: %w", nTrials, supply, ErrPoolExhausted)
	}
	return p, nil
}

// roundHalfEven matches the rounding the task has always used for pool
// sizes and switch offsets.
func roundHalfEven(x float64) int { return int(math.RoundToEven(x)) }

func (p *Planner) switchOffsets() (lo, hi int) {
	quarter := float64(p.nTrials) / 4
	return roundHalfEven(quarter - 10), roundHalfEven(quarter)
}

func (p *Planner) pool() []Difficulty {
	base := []Difficulty{Easiest, Easy, Medium, Hard}
	if p.practice {
		base = []Difficulty{Easiest, Easiest, Easiest, Easiest, Hard}
	}
	repeat := roundHalfEven(float64(p.nTrials)/4) + 2
	pool := make([]Difficulty, 0, len(base)*repeat)
	for _, d := range base {
		for i := 0; i < repeat; i++ {
			pool = append(pool, d)
		}
	}
	return pool
}

func (p *Planner) Plan() (*Plan, error) {
	for attempt := 0; attempt < planAttempts; attempt++ {
		switches := p.switches()
		switchDiffs := p.switchDifficulties()
		seq, ok := p.walk(switches, switchDiffs)
		if !ok {
			continue
		}
		return &Plan{Difficulties: seq, Switches: switches, SwitchDifficulties: switchDiffs}, nil
	}
	return nil, fmt.Errorf("plan %d trials after %d attempts: %w", p.nTrials, planAttempts, ErrPoolExhausted)
}

func (p *Planner) switches() []int {
	lo, hi := p.switchOffsets()
	switches := make([]int, 0, NumSwitches)
	prev := 0
	for len(switches) < NumSwitches {
		next := prev + lo + p.rng.IntN(hi-lo+1)
		if next <= p.nTrials-5 {
			switches = append(switches, next)
			prev = next
		}
	}
	return switches
}

func (p *Planner) switchDifficulties() []Difficulty {
	diffs := []Difficulty{Easy, Easy, Hard, Hard}
	if p.practice {
		diffs = []Difficulty{Easy, Easy, Easy, Hard}
	}
	p.rng.Shuffle(len(diffs), func(i, j int) { diffs[i], diffs[j] = diffs[j], diffs[i] })
	return diffs
}

func (p *Planner) walk(switches []int, switchDiffs []Difficulty) ([]Difficulty, bool) {
	pool := p.pool()
	seq := make([]Difficulty, 0, p.nTrials)

	i := p.rng.IntN(len(pool))
	last := pool[i]
	pool = removeAt(pool, i)
	streak := 0

	for t := 0; t < p.nTrials; t++ {
		var next Difficulty
		if k := slices.Index(switches, t); k >= 0 {
			next = switchDiffs[k]
			if next == last && streak >= 3 {
				streak = 4
			} else {
				streak = 3
			}
			// practice pools hold no "easy"; the forced label is then not consumed
			if j := slices.Index(pool, next); j >= 0 {
				pool = removeAt(pool, j)
			}
		} else {
			if len(pool) == 0 {
				return nil, false
			}
			j := p.rng.IntN(len(pool))
			switch {
			case streak >= MaxStreak:
				if !slices.ContainsFunc(pool, func(d Difficulty) bool { return d != last }) {
					return nil, false
				}
				for pool[j] == last {
					j = p.rng.IntN(len(pool))
				}
				streak = 1
			case pool[j] == last:
				streak++
			default:
				streak = 1
			}
			next = pool[j]
			pool = removeAt(pool, j)
		}
		seq = append(seq, next)
		last = next
	}
	return seq, true
}

func removeAt(pool []Difficulty, i int) []Difficulty {
	pool[i] = pool[len(pool)-1]
	return pool[:len(pool)-1]
}
