package engine

type ScreenKind int

const (
	ScreenText ScreenKind = iota
	ScreenDotCloud
	ScreenComposite
	ScreenIcons
)

// TutorialScreen is one instruction page. The example fields are set for the
// matching Kind only.
type TutorialScreen struct {
	Title string
	Text  string
	Kind  ScreenKind

	Dots      []Dot
	Composite Composite
	Layout    ChoiceLayout
}

const (
	exampleDots       = 600
	exampleRedPortion = 0.6
)

var tutorialPages = []TutorialScreen{
	{
		Title: "Welcome to the Dot Cloud Task",
		Text:  "In this task, you will be presented a cue of colored dots, with the ratio of yellow vs. red varying. You will be tasked with making a judgment of the predominant color.  Press right key to move on.",
		Kind:  ScreenDotCloud,
	},
	{
		Title: "Instructions",
		Text:  "The two colors are mapped to a specific feature, either scenery or face.  The face will be either male or female and the scene will either be city or landscape.  In this task you have to choose whether the scene is landscape/city or whether the face is female/male and the feature you have to attend to depends on the predominant color you determined earlier.",
		Kind:  ScreenComposite,
	},
	{
		Title: "Instructions",
		Text:  "The cue-task mapping can be (1) yellow=face and red=scene.  If you think the predominant color in the cue is yellow, you make judgement on whether the face is male or female.  Conversely, if you think the cue is red, you make judgement on whether the scene is city or landscape.",
	},
	{
		Title: "Instructions",
		Text:  "An alternative mapping would be:  (2) yellow=scene, red=face; In a given trial, the cue-task mapping is chosen from the two possible mappings, and it stays the same mapping for around 10-20 trials, then it changes to a different mapping covertly.",
	},
	{
		Title: "Instructions",
		Text:  "Incorrect answers could be due to a wrong perception of the cue (it's red dominant but you think it's yellow dominant), or a wrong mapping between cue and task (it's yellow = scene, but you think it's yellow = face), or a wrong perception of the task (it's a female face but you think it's a male face).",
	},
	{
		Title: "Instructions",
		Text:  "You will choose from the four icons below with arrow keys corresponding to the position of the options as shown below.  After that you will be presented with another response screen that asks you which color you thought was dominant and you will select your choice with either the left or right arrow key.",
		Kind:  ScreenIcons,
	},
	{
		Title: "Get Ready",
		Text:  "After the feedback, a new trial will start following the same scheme.  Press the Right Key Button to start the task when you're ready.",
	},
}

// TutorialScreens returns the instruction pages with fresh examples.
func (s *Session) TutorialScreens() []TutorialScreen {
	screens := make([]TutorialScreen, len(tutorialPages))
	copy(screens, tutorialPages)
	for i := range screens {
		switch screens[i].Kind {
		case ScreenDotCloud:
			// example cloud uses per-dot colour draws rather than an exact split
			red := 0
			for j := 0; j < exampleDots; j++ {
				if s.rng.Float64() < exampleRedPortion {
					red++
				}
			}
			cloud := NewDotCloud(s.display.CloudRadius(), red, exampleDots-red, s.clock.Now(), s.rng)
			screens[i].Dots = cloud.Dots
		case ScreenComposite:
			screens[i].Composite = s.drawComposite()
		case ScreenIcons:
			screens[i].Layout = ChoiceLayout{Slots: IconChoices}
			for j, c := range IconChoices {
				if img, ok := s.assets.Icon(c); ok {
					screens[i].Layout.Icons[j] = img
				}
			}
		}
	}
	return screens
}
