package engine

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type harness struct {
	session *Session
	subject *subject
	input   *fakeInput
	clock   *fakeClock
}

func newHarness(t *testing.T, cfg *Config, p policy, edit func(*Options)) *harness {
	t.Helper()
	in := &fakeInput{}
	h := &harness{subject: newSubject(in, p), input: in, clock: newFakeClock(10 * time.Millisecond)}
	opts := Options{
		Clock:   h.clock,
		Input:   in,
		Display: h.subject,
		Assets:  newFakeAssets(),
		Logger:  zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)),
	}
	if edit != nil {
		edit(&opts)
	}
	s, err := NewSession(cfg, opts)
	require.NoError(t, err)
	h.session = s
	h.subject.session = s
	return h
}

func (h *harness) run(t *testing.T, ctx context.Context) *Result {
	t.Helper()
	res, err := h.session.Run(ctx)
	require.NoError(t, err)
	return res
}

func column(t *testing.T, rows [][]string, name string) []string {
	t.Helper()
	i := slices.Index(rows[0], name)
	require.GreaterOrEqual(t, i, 0, "no column %q", name)
	var col []string
	for _, r := range rows[1:] {
		col = append(col, r[i])
	}
	return col
}

func TestSessionCompletes(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, answerCorrect, nil)
	res := h.run(t, context.Background())

	assert.False(t, res.Aborted)
	assert.Equal(t, 1.0, res.Accuracy)
	assert.Empty(t, res.Summary)
	require.Len(t, res.Records, cfg.NTrials)
	assert.Equal(t, cfg.NTrials, h.subject.probes)

	rows := readCSV(t, res.Path)
	require.Len(t, rows, cfg.NTrials+1)
	assert.Equal(t, h.session.State().Log.Columns(), rows[0])
	for _, v := range column(t, rows, "correct") {
		assert.Equal(t, "correct", v)
	}
	for _, v := range column(t, rows, "running_score") {
		assert.Equal(t, "1", v)
	}
	for _, v := range column(t, rows, "chosen_color") {
		assert.Equal(t, "red", v)
	}
	for _, f := range h.subject.feedback {
		assert.Equal(t, FeedbackCorrect, f)
	}

	for i, r := range res.Records {
		assert.GreaterOrEqual(t, r.ISI, cfg.ISILow)
		assert.LessOrEqual(t, r.ISI, cfg.ISIHigh)
		require.NotNil(t, r.ITI)
		assert.GreaterOrEqual(t, *r.ITI, cfg.ITILow)
		assert.LessOrEqual(t, *r.ITI, cfg.ITIHigh)
		assert.InDelta(t, cfg.Diff(h.session.Plan().Difficulties[i]), r.ProportionDiff, 1e-9)
	}
}

func TestSessionContextFollowsPlan(t *testing.T) {
	h := newHarness(t, testConfig(t), answerCorrect, nil)
	res := h.run(t, context.Background())

	plan := h.session.Plan()
	for i := 1; i < len(res.Records); i++ {
		changed := res.Records[i].Context != res.Records[i-1].Context
		assert.Equal(t, plan.IsSwitch(i-1), changed, "trial %d", i)
	}
}

func TestSessionAbortKeepsCompletedTrials(t *testing.T) {
	h := newHarness(t, testConfig(t), answerCorrect, nil)
	h.subject.abortAt = 5
	res := h.run(t, context.Background())

	assert.True(t, res.Aborted)
	assert.Len(t, res.Records, 5)
	assert.Len(t, readCSV(t, res.Path), 6)
	assert.Equal(t, 5, h.subject.probes, "the aborted trial never reaches the colour probe")
}

func TestSessionAbortOnColorProbe(t *testing.T) {
	h := newHarness(t, testConfig(t), answerCorrect, nil)
	h.subject.probeAbortAt = 3
	res := h.run(t, context.Background())

	assert.True(t, res.Aborted)
	assert.Len(t, res.Records, 3)
	assert.Len(t, readCSV(t, res.Path), 4)
	assert.Equal(t, 4, h.subject.choices)
	assert.Len(t, h.subject.feedback, 4, "feedback of the interrupted trial was shown")
}

func TestSessionAbortDuringSelfGuidedWait(t *testing.T) {
	cfg := testConfig(t)
	cfg.SelfGuided = true
	h := newHarness(t, cfg, answerCorrect, nil)
	h.subject.itiAbortAt = 3
	start := h.clock.now
	res := h.run(t, context.Background())

	assert.True(t, res.Aborted)
	assert.Len(t, res.Records, 3)
	rows := readCSV(t, res.Path)
	assert.Len(t, rows, 4)
	assert.Len(t, rows[0], 10)
	assert.Equal(t, 4, h.subject.probes)
	assert.Equal(t, 8, h.subject.fixations, "ISI and ITI fixation for each started trial")
	// trials 0-2 wait out the full limit, trial 3 is cut short
	assert.Less(t, h.clock.now.Sub(start), 4*SelfGuidedLimit)
}

func TestSessionCancelledBeforeFirstTrial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarness(t, testConfig(t), answerCorrect, nil)
	res := h.run(t, ctx)

	assert.True(t, res.Aborted)
	assert.Empty(t, res.Records)
	assert.Len(t, readCSV(t, res.Path), 1, "header only")
}

func TestSessionNoResponse(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, answerNone, nil)
	res := h.run(t, context.Background())

	assert.Zero(t, res.Accuracy)
	for _, r := range res.Records {
		assert.Equal(t, OutcomeNoResponse, r.Outcome)
		assert.Equal(t, cfg.ResponseWindow, r.ResponseTime)
		assert.Equal(t, ChoiceNone, r.ChosenImage)
		assert.Equal(t, NoResponse, r.ChosenColor)
		assert.False(t, r.Correct)
	}
	for _, f := range h.subject.feedback {
		assert.Equal(t, FeedbackMiss, f)
	}

	rows := readCSV(t, res.Path)
	for _, v := range column(t, rows, "chosen_image") {
		assert.Equal(t, NoResponse, v)
	}
	for _, v := range column(t, rows, "correct_binary") {
		assert.Equal(t, "0", v)
	}
}

func TestSessionWrongAnswers(t *testing.T) {
	h := newHarness(t, testConfig(t), answerWrong, nil)
	res := h.run(t, context.Background())

	assert.Zero(t, res.Accuracy)
	for _, r := range res.Records {
		assert.Equal(t, OutcomeIncorrect, r.Outcome)
		assert.NotEqual(t, ChoiceNone, r.ChosenImage)
		assert.Zero(t, r.RunningScore)
	}
}

func TestSessionPracticeSummary(t *testing.T) {
	tests := []struct {
		name   string
		policy policy
		want   string
	}{
		{"pass", answerCorrect, "The overall accuracy is 100.00%\nPress Escape to quit"},
		{"fail", answerWrong, "The overall accuracy is 0.00%\nYou may want to practice again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Block = PracticeBlock
			h := newHarness(t, cfg, tt.policy, nil)
			res := h.run(t, context.Background())

			assert.Equal(t, tt.want, res.Summary)
			assert.Equal(t, []string{tt.want}, h.subject.messages)
			assert.Contains(t, h.clock.sleeps, SummaryDuration)
		})
	}
}

func TestPracticeSummaryThreshold(t *testing.T) {
	acc, msg := PracticeSummary(56, 80)
	assert.Equal(t, 0.7, acc)
	assert.True(t, strings.HasSuffix(msg, "Press Escape to quit"), msg)

	acc, msg = PracticeSummary(55, 80)
	assert.Equal(t, 0.6875, acc)
	assert.Equal(t, "The overall accuracy is 68.75%\nYou may want to practice again.", msg)
}

func TestSessionSelfGuided(t *testing.T) {
	cfg := testConfig(t)
	cfg.SelfGuided = true
	h := newHarness(t, cfg, answerCorrect, nil)
	h.subject.keyOnFixation = true
	res := h.run(t, context.Background())

	require.Len(t, res.Records, cfg.NTrials)
	for _, r := range res.Records {
		assert.Nil(t, r.ITI)
	}
	rows := readCSV(t, res.Path)
	assert.NotContains(t, rows[0], "iti_duration")
	assert.Len(t, rows[0], 10)
}

func TestSessionSelfGuidedWaitsAtMostLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.SelfGuided = true
	h := newHarness(t, cfg, answerCorrect, nil)
	start := h.clock.now
	res := h.run(t, context.Background())

	require.Len(t, res.Records, cfg.NTrials)
	assert.Greater(t, h.clock.now.Sub(start), time.Duration(cfg.NTrials)*SelfGuidedLimit)
}

func fmriSchedule(n int) *Schedule {
	s := &Schedule{Source: "test"}
	for i := 0; i < n; i++ {
		s.ISI = append(s.ISI, 0.25+float64(i%4)/10)
		s.ITI = append(s.ITI, 2+float64(i%5))
	}
	return s
}

func TestSessionFMRIUsesSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Method = MethodFMRI
	cfg.SchedulePath = "unused"
	sched := fmriSchedule(cfg.NTrials)
	h := newHarness(t, cfg, answerCorrect, func(o *Options) { o.Schedule = sched })
	res := h.run(t, context.Background())

	require.Len(t, res.Records, cfg.NTrials)
	for i, r := range res.Records {
		assert.Equal(t, sched.ISI[i], r.ISI, "trial %d", i)
		require.NotNil(t, r.ITI)
		assert.Equal(t, sched.ITI[i], *r.ITI, "trial %d", i)
	}
	assert.Equal(t, FMRILeadIn, h.clock.sleeps[0])
	assert.Contains(t, h.clock.sleeps, FMRITail)
}

func TestNewSessionErrors(t *testing.T) {
	fmri := func(t *testing.T) *Config {
		cfg := testConfig(t)
		cfg.Method = MethodFMRI
		cfg.SchedulePath = "unused"
		return cfg
	}

	tests := []struct {
		name string
		cfg  func(*testing.T) *Config
		edit func(*Options)
		want error
	}{
		{"schedule too short", fmri, func(o *Options) { o.Schedule = fmriSchedule(10) }, ErrScheduleTooShort},
		{"empty category", testConfig, func(o *Options) { o.Assets.(*fakeAssets).images[UrbanScenes] = nil }, ErrNoImages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Input: &fakeInput{}, Display: newSubject(&fakeInput{}, answerNone), Assets: newFakeAssets()}
			tt.edit(&opts)
			_, err := NewSession(tt.cfg(t), opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("fMRI without schedule", func(t *testing.T) {
		_, err := NewSession(fmri(t), Options{Input: &fakeInput{}, Display: newSubject(&fakeInput{}, answerNone), Assets: newFakeAssets()})
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Subject = ""
		_, err := NewSession(cfg, Options{Input: &fakeInput{}, Display: newSubject(&fakeInput{}, answerNone), Assets: newFakeAssets()})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestSessionMissingIconStillRuns(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, answerNone, func(o *Options) { delete(o.Assets.(*fakeAssets).icons, ChoiceMale) })
	res := h.run(t, context.Background())
	assert.Len(t, res.Records, cfg.NTrials)
}

func TestSessionTutorial(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tutorial = true
	h := newHarness(t, cfg, answerCorrect, nil)

	screens := h.session.TutorialScreens()
	require.Len(t, screens, len(tutorialPages))
	for _, s := range screens {
		switch s.Kind {
		case ScreenDotCloud:
			assert.Len(t, s.Dots, exampleDots)
		case ScreenComposite:
			assert.NotNil(t, s.Composite.FaceImage)
			assert.NotNil(t, s.Composite.SceneImage)
		case ScreenIcons:
			assert.Equal(t, IconChoices, s.Layout.Slots)
		}
	}

	res := h.run(t, context.Background())
	assert.Equal(t, len(tutorialPages), h.subject.instructions)
	assert.Len(t, res.Records, cfg.NTrials)
}

func TestSessionSameSeedSamePlan(t *testing.T) {
	a := newHarness(t, testConfig(t), answerCorrect, nil)
	b := newHarness(t, testConfig(t), answerCorrect, nil)
	assert.Equal(t, a.session.Plan(), b.session.Plan())
	assert.NotEqual(t, a.session.ID, b.session.ID)
}
