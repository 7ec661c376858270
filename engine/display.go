package engine

// Image is an opaque loaded picture owned by the presentation layer.
type Image interface {
	Size() (w, h float32)
}

type Assets interface {
	Images(c Category) []Image
	// Icon reports false when the icon could not be loaded.
	Icon(c Choice) (Image, bool)
}

// Composite is the face/scene target screen.
type Composite struct {
	Face       Face
	Scene      Scene
	FaceOnTop  bool
	FaceImage  Image
	SceneImage Image
}

type Feedback int

const (
	FeedbackCorrect Feedback = iota
	FeedbackIncorrect
	FeedbackMiss
)

var feedbackNames = [...]string{"Correct", "Incorrect", "Miss"}

func (f Feedback) String() string { return feedbackNames[f] }

// Display draws one full screen per call and flips it.
type Display interface {
	Fixation()
	DotCloud(dots []Dot)
	Composite(c Composite)
	Choices(l ChoiceLayout)
	Feedback(f Feedback)
	ColorProbe()
	Message(text string)
	Instructions(s TutorialScreen)
	// CloudRadius is the dot cloud radius in pixels.
	CloudRadius() float64
}

// Phase identifies the trial screen for trigger markers.
type Phase int

const (
	PhaseDots Phase = iota + 1
	PhaseComposite
	PhaseChoices
	PhaseColorProbe
)

var phaseNames = [...]string{"", "dots", "composite", "choices", "color_probe"}

func (p Phase) String() string { return phaseNames[p] }

// Trigger marks phase onsets and offsets for external recording equipment.
type Trigger interface {
	Onset(p Phase)
	Offset(p Phase)
}

type nopTrigger struct{}

func (nopTrigger) Onset(Phase)  {}
func (nopTrigger) Offset(Phase) {}
