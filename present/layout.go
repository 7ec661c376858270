package present

import (
	"math"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/goki/mat32"

	"dotcloud/engine"
)

const (
	dotRadius      = 4
	fixationSize   = 10
	choiceOffsetY  = 100
	choiceOffsetX  = 150
	probeOffsetX   = 150
	probeRadius    = 50
	compositeScale = 0.5
	tutorialScale  = 0.6
)

// centered returns the w x h rect whose centre is c.
func centered(c mat32.Vec2, w, h float32) sdl.FRect {
	return sdl.FRect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// compositeRects stacks the face and the scene so they touch on the
// horizontal midline of the screen, each at half its source size.
func compositeRects(center mat32.Vec2, face, scene mat32.Vec2, faceOnTop bool) (faceRect, sceneRect sdl.FRect) {
	face = face.MulScalar(compositeScale)
	scene = scene.MulScalar(compositeScale)
	top, bottom := scene, face
	if faceOnTop {
		top, bottom = face, scene
	}
	topRect := sdl.FRect{X: center.X - top.X/2, Y: center.Y - top.Y, W: top.X, H: top.Y}
	bottomRect := sdl.FRect{X: center.X - bottom.X/2, Y: center.Y, W: bottom.X, H: bottom.Y}
	if faceOnTop {
		return topRect, bottomRect
	}
	return bottomRect, topRect
}

// choiceCenter is the icon position for an arrow direction.
func choiceCenter(center mat32.Vec2, d engine.Direction) mat32.Vec2 {
	switch d {
	case engine.DirUp:
		return center.Add(mat32.Vec2{Y: -choiceOffsetY})
	case engine.DirDown:
		return center.Add(mat32.Vec2{Y: choiceOffsetY})
	case engine.DirLeft:
		return center.Add(mat32.Vec2{X: -choiceOffsetX})
	default:
		return center.Add(mat32.Vec2{X: choiceOffsetX})
	}
}

// discSpans covers a filled disc with one rect per pixel row.
func discSpans(c mat32.Vec2, r float32) []sdl.FRect {
	spans := make([]sdl.FRect, 0, int(2*r)+1)
	for dy := -r; dy <= r; dy++ {
		half := float32(math.Sqrt(float64(r*r - dy*dy)))
		spans = append(spans, sdl.FRect{X: c.X - half, Y: c.Y + dy, W: 2 * half, H: 1})
	}
	return spans
}
