package engine

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

const (
	CompositeDuration = 1500 * time.Millisecond
	FeedbackDuration  = 500 * time.Millisecond
)

// cue is the dot cloud setup of one trial.
type cue struct {
	red, yellow   float64 // proportions
	nRed, nYellow int
}

func (c cue) majority() Color {
	if c.nRed > c.nYellow {
		return Primary
	}
	return Secondary
}

func (s *Session) drawCue(d Difficulty) cue {
	diff := s.cfg.Diff(d)
	major := 0.5 + diff/2
	c := cue{red: major, yellow: 1 - major}
	if s.rng.IntN(2) == 1 {
		c.red, c.yellow = c.yellow, c.red
	}
	c.nRed, c.nYellow = SplitDots(s.cfg.NDots, c.red)
	return c
}

func (s *Session) drawComposite() Composite {
	c := Composite{
		Scene: Scene(s.rng.IntN(2)),
		Face:  Face(s.rng.IntN(2)),
	}
	scenes := s.assets.Images(sceneCategory(c.Scene))
	faces := s.assets.Images(faceCategory(c.Face))
	c.SceneImage = scenes[s.rng.IntN(len(scenes))]
	c.FaceImage = faces[s.rng.IntN(len(faces))]
	c.FaceOnTop = s.rng.IntN(2) == 1
	return c
}

// runTrial runs the seven phases of trial t. Nothing is recorded when it
// returns an error.
func (s *Session) runTrial(ctx context.Context, t int) (TrialRecord, error) {
	if err := s.waiter.CheckAbort(ctx); err != nil {
		return TrialRecord{}, err
	}
	difficulty := s.plan.Difficulties[t]
	c := s.drawCue(difficulty)

	if err := s.presentCue(ctx, c); err != nil {
		return TrialRecord{}, err
	}

	isi := s.isi(t)
	s.display.Fixation()
	s.clock.Sleep(seconds(isi))

	comp := s.drawComposite()
	s.trigger.Onset(PhaseComposite)
	s.display.Composite(comp)
	s.clock.Sleep(CompositeDuration)
	s.trigger.Offset(PhaseComposite)

	layout := NewChoiceLayout(s.rng, s.assets)
	s.input.Clear()
	s.trigger.Onset(PhaseChoices)
	s.display.Choices(layout)
	resp, err := s.waiter.CollectChoice(ctx, layout, seconds(s.cfg.ResponseWindow))
	s.trigger.Offset(PhaseChoices)
	if err != nil {
		return TrialRecord{}, err
	}

	active := s.state.Context.Current()
	correct := Judge(active, c.majority(), comp.Face, comp.Scene, resp.Choice)
	outcome, fb := OutcomeIncorrect, FeedbackIncorrect
	switch {
	case correct:
		outcome, fb = OutcomeCorrect, FeedbackCorrect
	case resp.Missed:
		outcome, fb = OutcomeNoResponse, FeedbackMiss
	}
	s.display.Feedback(fb)
	s.clock.Sleep(FeedbackDuration)

	s.trigger.Onset(PhaseColorProbe)
	s.display.ColorProbe()
	color, err := s.waiter.CollectColor(ctx, ColorProbeWindow)
	s.trigger.Offset(PhaseColorProbe)
	if err != nil {
		return TrialRecord{}, err
	}

	iti, err := s.interTrial(ctx, t)
	if err != nil {
		return TrialRecord{}, err
	}

	if correct {
		s.state.Score++
	}
	rec := TrialRecord{
		ProportionDiff: math.Abs(c.yellow - c.red),
		MajorityColor:  c.majority(),
		ISI:            isi,
		ITI:            iti,
		Outcome:        outcome,
		ResponseTime:   resp.Time,
		ChosenColor:    color.Label(),
		Context:        active,
		RunningScore:   float64(s.state.Score) / float64(t+1),
		Correct:        correct,
		ChosenImage:    resp.Choice,
	}
	s.log.Info("trial complete",
		zap.Int("trial", t),
		zap.Stringer("difficulty", difficulty),
		zap.Stringer("majority", rec.MajorityColor),
		zap.Int("context", int(active)),
		zap.String("outcome", string(outcome)),
		zap.Float64("rt", resp.Time),
		zap.String("color", rec.ChosenColor),
	)
	return rec, nil
}

// presentCue animates the dot cloud for the stimulus duration.
func (s *Session) presentCue(ctx context.Context, c cue) error {
	start := s.clock.Now()
	cloud := NewDotCloud(s.display.CloudRadius(), c.nRed, c.nYellow, start, s.rng)
	dur := seconds(s.cfg.StimulusDuration)

	s.trigger.Onset(PhaseDots)
	defer s.trigger.Offset(PhaseDots)
	for {
		now := s.clock.Now()
		if now.Sub(start) >= dur {
			return nil
		}
		if err := s.waiter.CheckAbort(ctx); err != nil {
			return err
		}
		s.display.DotCloud(cloud.Tick(now))
	}
}

func (s *Session) isi(t int) float64 {
	if s.cfg.Method == MethodFMRI {
		return s.schedule.ISI[t]
	}
	return uniform(s.rng, s.cfg.ISILow, s.cfg.ISIHigh)
}

// interTrial shows fixation until the next trial. Self-guided sessions wait
// for any key, up to SelfGuidedLimit, and record no ITI.
func (s *Session) interTrial(ctx context.Context, t int) (*float64, error) {
	s.display.Fixation()
	if s.cfg.SelfGuided {
		if _, err := s.waiter.Wait(ctx, SelfGuidedLimit, anyKey); err != nil {
			return nil, err
		}
		return nil, nil
	}
	var iti float64
	if s.cfg.Method == MethodFMRI {
		iti = s.schedule.ITI[t]
	} else {
		iti = uniform(s.rng, s.cfg.ITILow, s.cfg.ITIHigh)
	}
	s.clock.Sleep(seconds(iti))
	return &iti, nil
}
