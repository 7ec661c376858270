package engine

import "math/rand/v2"

type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string { return directionNames[d] }

// ChoiceLayout maps each arrow direction to an icon. Icons[d] is nil when
// the icon file was missing; that slot cannot be chosen.
type ChoiceLayout struct {
	Slots [4]Choice
	Icons [4]Image
}

func (l *ChoiceLayout) At(d Direction) (Choice, bool) {
	return l.Slots[d], l.Icons[d] != nil
}

// ArrangeChoices places the four icons on up, down, left and right.
// Faces are swapped with p=1/2, scenes are swapped with p=1/2, then the whole
// order is reversed with p=1/2. Only 8 of the 24 permutations can occur,
// each with p=1/8: the faces always share one axis and the scenes the
// other, and the subject never sees a face opposite a scene.
func ArrangeChoices(rng *rand.Rand) [4]Choice {
	slots := IconChoices
	swapPair(rng, slots[:], 0)
	swapPair(rng, slots[:], 2)
	if rng.IntN(2) == 1 {
		slots[0], slots[1], slots[2], slots[3] = slots[3], slots[2], slots[1], slots[0]
	}
	return slots
}

// swapPair shuffles the two entries starting at i: the first is exchanged
// with a uniform pick from both, so it stays put half of the time.
func swapPair(rng *rand.Rand, a []Choice, i int) {
	j := i + rng.IntN(2)
	a[i], a[j] = a[j], a[i]
}

// NewChoiceLayout arranges the icons and attaches the loaded images.
func NewChoiceLayout(rng *rand.Rand, assets Assets) ChoiceLayout {
	var l ChoiceLayout
	l.Slots = ArrangeChoices(rng)
	for i, c := range l.Slots {
		if img, ok := assets.Icon(c); ok {
			l.Icons[i] = img
		}
	}
	return l
}
