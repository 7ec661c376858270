package engine

type Color int

const (
	ColorRed Color = iota
	ColorYellow
)

// Primary is the colour whose majority maps to face judgements in context 1.
const (
	Primary   = ColorRed
	Secondary = ColorYellow
)

func (c Color) String() string {
	if c == ColorRed {
		return "red"
	}
	return "yellow"
}

type Face int

const (
	FaceMale Face = iota
	FaceFemale
)

func (f Face) String() string { return f.Choice().String() }

func (f Face) Choice() Choice {
	if f == FaceMale {
		return ChoiceMale
	}
	return ChoiceFemale
}

type Scene int

const (
	SceneLandscape Scene = iota
	SceneCity
)

func (s Scene) String() string { return s.Choice().String() }

func (s Scene) Choice() Choice {
	if s == SceneCity {
		return ChoiceCity
	}
	return ChoiceLandscape
}

// Choice is an answer on the icon screen.
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceMale
	ChoiceFemale
	ChoiceCity
	ChoiceLandscape
)

// NoResponse is written for both the icon and the colour probe on timeout.
const NoResponse = "No Response"

var choiceNames = map[Choice]string{
	ChoiceNone:      NoResponse,
	ChoiceMale:      "male",
	ChoiceFemale:    "female",
	ChoiceCity:      "city",
	ChoiceLandscape: "landscape",
}

func (c Choice) String() string { return choiceNames[c] }

// IconChoices is the load order of the icon set.
var IconChoices = [4]Choice{ChoiceMale, ChoiceFemale, ChoiceCity, ChoiceLandscape}

type Difficulty int

const (
	Easiest Difficulty = iota
	Easy
	Medium
	Hard
)

var difficultyNames = [...]string{"easiest", "easy", "medium", "hard"}

func (d Difficulty) String() string { return difficultyNames[d] }

// Category selects an image folder.
type Category int

const (
	MaleFaces Category = iota
	FemaleFaces
	RuralScenes
	UrbanScenes
)

var categoryNames = [...]string{"male faces", "female faces", "rural scenes", "urban scenes"}

func (c Category) String() string { return categoryNames[c] }

// Categories lists every image category a session draws from.
var Categories = [4]Category{MaleFaces, FemaleFaces, RuralScenes, UrbanScenes}

func faceCategory(f Face) Category {
	if f == FaceMale {
		return MaleFaces
	}
	return FemaleFaces
}

func sceneCategory(s Scene) Category {
	if s == SceneLandscape {
		return RuralScenes
	}
	return UrbanScenes
}
