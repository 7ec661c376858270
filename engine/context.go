package engine

import "math/rand/v2"

// Context selects which judged feature the dominant colour maps to.
//
//	context 1: red -> face, yellow -> scene
//	context 2: red -> scene, yellow -> face
type Context int

const (
	Context1 Context = 1
	Context2 Context = 2
)

type Feature int

const (
	FeatureFace Feature = iota
	FeatureScene
)

// ContextSwitcher owns the active context for a session.
type ContextSwitcher struct {
	current Context
}

func NewContextSwitcher(rng *rand.Rand) *ContextSwitcher {
	return &ContextSwitcher{current: Context(1 + rng.IntN(2))}
}

func (s *ContextSwitcher) Current() Context { return s.current }

// Advance is called after every trial and flips the context when that
// trial was a switch trial.
func (s *ContextSwitcher) Advance(trial int, plan *Plan) bool {
	if !plan.IsSwitch(trial) {
		return false
	}
	if s.current == Context1 {
		s.current = Context2
	} else {
		s.current = Context1
	}
	return true
}

// JudgedFeature is the feature the subject must report.
func JudgedFeature(ctx Context, majority Color) Feature {
	primary := majority == Primary
	if (ctx == Context1) == primary {
		return FeatureFace
	}
	return FeatureScene
}

// Judge applies the context rule to one answer.
func Judge(ctx Context, majority Color, face Face, scene Scene, chosen Choice) bool {
	if JudgedFeature(ctx, majority) == FeatureFace {
		return chosen == face.Choice()
	}
	return chosen == scene.Choice()
}
