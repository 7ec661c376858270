package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoImages = errors.New("no images in category")

const (
	FMRILeadIn        = 6 * time.Second
	FMRITail          = 10 * time.Second
	PracticeThreshold = 0.70
	SummaryDuration   = 5 * time.Second
)

// State is everything that crosses trial boundaries.
type State struct {
	Context *ContextSwitcher
	Score   int
	Log     *TrialLog
}

type Options struct {
	Clock    Clock
	Input    Input
	Display  Display
	Assets   Assets
	Trigger  Trigger
	Schedule *Schedule
	Logger   *zap.Logger
	Rand     *rand.Rand
}

type Session struct {
	ID string

	cfg      *Config
	plan     *Plan
	schedule *Schedule
	clock    Clock
	input    Input
	display  Display
	assets   Assets
	trigger  Trigger
	log      *zap.Logger
	rng      *rand.Rand
	waiter   *Waiter
	state    *State
	path     string
}

type Result struct {
	Path     string
	Records  []TrialRecord
	Aborted  bool
	Accuracy float64
	// Summary is the practice message, empty for other blocks.
	Summary  string
}

func NewSession(cfg *Config, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Input == nil || opts.Display == nil || opts.Assets == nil {
		return nil, errors.New("session needs input, display and assets")
	}

	s := &Session{
		ID:       uuid.NewString(),
		cfg:      cfg,
		schedule: opts.Schedule,
		clock:    opts.Clock,
		input:    opts.Input,
		display:  opts.Display,
		assets:   opts.Assets,
		trigger:  opts.Trigger,
		log:      opts.Logger,
		rng:      opts.Rand,
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.trigger == nil {
		s.trigger = nopTrigger{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.With(
		zap.String("session_id", s.ID),
		zap.String("subject", cfg.Subject),
		zap.String("block", cfg.Block),
		zap.String("method", string(cfg.Method)),
	)
	if s.rng == nil {
		s.rng = NewRand(cfg.Seed, s.log)
	}
	s.waiter = &Waiter{Clock: s.clock, Input: s.input}

	for _, c := range Categories {
		if len(s.assets.Images(c)) == 0 {
			return nil, fmt.Errorf("%s: %w", c, ErrNoImages)
		}
	}
	for _, c := range IconChoices {
		if _, ok := s.assets.Icon(c); !ok {
			s.log.Warn("icon not found, choice unusable", zap.Stringer("icon", c))
		}
	}

	if cfg.Method == MethodFMRI {
		if s.schedule == nil {
			return nil, errors.New("fMRI session needs an ITI schedule")
		}
		if err := s.schedule.Require(cfg.NTrials); err != nil {
			return nil, err
		}
	}

	planner, err := NewPlanner(cfg.NTrials, cfg.IsPractice(), s.rng)
	if err != nil {
		return nil, err
	}
	if s.plan, err = planner.Plan(); err != nil {
		return nil, err
	}
	s.log.Debug("block plan",
		zap.Ints("switches", s.plan.Switches),
		zap.Stringers("switch_difficulties", s.plan.SwitchDifficulties),
	)

	s.state = &State{
		Context: NewContextSwitcher(s.rng),
		Log:     &TrialLog{SelfGuided: cfg.SelfGuided},
	}
	s.path = filepath.Join(cfg.OutputDir, OutputName(cfg.Subject, cfg.Block, cfg.Method, time.Now()))
	return s, nil
}

// NewRand seeds the session generator. A zero seed is replaced by the clock
// and logged so the run can be reproduced.
func NewRand(seed uint64, log *zap.Logger) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info("random seed", zap.Uint64("seed", seed))
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (s *Session) Plan() *Plan { return s.plan }
func (s *Session) State() *State { return s.state }
func (s *Session) OutputPath() string { return s.path }
func (s *Session) Logger() *zap.Logger { return s.log }

// Run presents the whole block. The trial log is written on every exit,
// including an operator abort, an error and a panic. An abort is reported
// through Result.Aborted, not as an error.
func (s *Session) Run(ctx context.Context) (res *Result, err error) {
	res = &Result{Path: s.path}
	defer func() {
		if p := recover(); p != nil {
			if ferr := s.flush(); ferr != nil {
				s.log.Error("flush after panic", zap.Error(ferr))
			}
			panic(p)
		}
		if ferr := s.flush(); ferr != nil {
			err = errors.Join(err, ferr)
		}
		res.Records = s.state.Log.Records
	}()

	err = s.run(ctx, res)
	if errors.Is(err, ErrAborted) {
		s.log.Info("session aborted", zap.Int("completed", s.state.Log.Len()))
		res.Aborted = true
		err = nil
	}
	return res, err
}

func (s *Session) run(ctx context.Context, res *Result) error {
	if s.cfg.Tutorial {
		if err := s.runTutorial(ctx); err != nil {
			return err
		}
	}
	s.log.Info("session start", zap.Int("trials", s.cfg.NTrials), zap.Int("context", int(s.state.Context.Current())))
	if s.cfg.Method == MethodFMRI {
		s.display.Fixation()
		s.clock.Sleep(FMRILeadIn)
	}

	n := s.cfg.NTrials
	for t := 0; t < n; t++ {
		rec, err := s.runTrial(ctx, t)
		if err != nil {
			return err
		}
		s.state.Log.Append(rec)

		if t == n-1 {
			if s.cfg.Method == MethodFMRI {
				s.clock.Sleep(FMRITail)
			}
			if s.cfg.IsPractice() {
				_, res.Summary = PracticeSummary(s.state.Score, n)
				s.display.Message(res.Summary)
				s.clock.Sleep(SummaryDuration)
			}
		}

		if s.state.Context.Advance(t, s.plan) {
			s.log.Debug("context switch", zap.Int("trial", t), zap.Int("context", int(s.state.Context.Current())))
		}
	}
	res.Accuracy = float64(s.state.Score) / float64(n)
	s.log.Info("session finished", zap.Float64("accuracy", res.Accuracy))
	return nil
}

func (s *Session) runTutorial(ctx context.Context) error {
	for _, screen := range s.TutorialScreens() {
		s.display.Instructions(screen)
		_, err := s.waiter.Wait(ctx, NoDeadline, func(ev Event) bool {
			return ev.Type == EventKey && ev.Key == KeyRight
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) flush() error {
	if err := s.state.Log.Save(s.path); err != nil {
		return fmt.Errorf("save trial log: %w", err)
	}
	s.log.Info("results saved", zap.String("path", s.path), zap.Int("trials", s.state.Log.Len()))
	return nil
}

// PracticeSummary is the message shown after the last practice trial.
func PracticeSummary(score, n int) (accuracy float64, message string) {
	accuracy = float64(score) / float64(n)
	message = fmt.Sprintf("The overall accuracy is %.2f%%\n", accuracy*100)
	if accuracy < PracticeThreshold {
		message += "You may want to practice again."
	} else {
		message += "Press Escape to quit"
	}
	return accuracy, message
}
