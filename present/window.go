package present

import (
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"github.com/goki/mat32"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"dotcloud/engine"
)

var (
	grey   = sdl.Color{R: 128, G: 128, B: 128, A: 255}
	white  = sdl.Color{R: 255, G: 255, B: 255, A: 255}
	black  = sdl.Color{R: 0, G: 0, B: 0, A: 255}
	red    = sdl.Color{R: 255, G: 0, B: 0, A: 255}
	yellow = sdl.Color{R: 255, G: 255, B: 0, A: 255}
	green  = sdl.Color{R: 0, G: 255, B: 0, A: 255}
	orange = sdl.Color{R: 255, G: 165, B: 0, A: 255}
)

var feedbackColors = map[engine.Feedback]sdl.Color{
	engine.FeedbackCorrect:   green,
	engine.FeedbackIncorrect: red,
	engine.FeedbackMiss:      orange,
}

// wrapColumns is the line length of message and instruction text.
const wrapColumns = 60

// Screen is the task window. It implements engine.Display and engine.Input.
type Screen struct {
	renderer  *sdl.Renderer
	font      *ttf.Font
	largeFont *ttf.Font
	w, h      int
	vsync     bool
	quit      bool
	log       *zap.Logger
}

func NewScreen(renderer *sdl.Renderer, font, largeFont *ttf.Font, w, h int, vsync bool, log *zap.Logger) *Screen {
	return &Screen{renderer: renderer, font: font, largeFont: largeFont, w: w, h: h, vsync: vsync, log: log}
}

func (s *Screen) center() mat32.Vec2 {
	return mat32.Vec2{X: float32(s.w) / 2, Y: float32(s.h) / 2}
}

func (s *Screen) setColor(c sdl.Color) {
	s.renderer.SetDrawColor(c.R, c.G, c.B, c.A)
}

func (s *Screen) clear() {
	s.setColor(grey)
	s.renderer.Clear()
}

func (s *Screen) present() {
	s.renderer.Present()
	if !s.vsync {
		sdl.Delay(1)
	}
}

func (s *Screen) drawFixation() {
	s.setColor(white)
	r := centered(s.center(), fixationSize, fixationSize)
	s.renderer.RenderFillRect(&r)
}

func (s *Screen) drawDots(dots []engine.Dot) {
	c := s.center()
	for _, d := range dots {
		if d.Color == engine.ColorRed {
			s.setColor(red)
		} else {
			s.setColor(yellow)
		}
		r := centered(c.Add(d.Pos), 2*dotRadius, 2*dotRadius)
		s.renderer.RenderFillRect(&r)
	}
}

func (s *Screen) drawImage(img engine.Image, dst sdl.FRect) {
	t, ok := img.(*Texture)
	if !ok || t == nil {
		return
	}
	s.renderer.RenderTexture(t.tex, nil, &dst)
}

func (s *Screen) drawComposite(c engine.Composite, center mat32.Vec2) {
	fw, fh := c.FaceImage.Size()
	sw, sh := c.SceneImage.Size()
	faceRect, sceneRect := compositeRects(center, mat32.Vec2{X: fw, Y: fh}, mat32.Vec2{X: sw, Y: sh}, c.FaceOnTop)
	s.drawImage(c.SceneImage, sceneRect)
	s.drawImage(c.FaceImage, faceRect)
}

func (s *Screen) drawChoices(l engine.ChoiceLayout, center mat32.Vec2) {
	for _, d := range engine.Directions {
		icon := l.Icons[d]
		if icon == nil {
			continue
		}
		w, h := icon.Size()
		s.drawImage(icon, centered(choiceCenter(center, d), w*IconScale, h*IconScale))
	}
}

// drawText renders lines centred on y and returns the y below the last one.
func (s *Screen) drawText(font *ttf.Font, text string, color sdl.Color, y float32) float32 {
	if font == nil {
		return y
	}
	for _, line := range strings.Split(wordwrap.String(text, wrapColumns), "\n") {
		if line == "" {
			continue
		}
		surf, err := font.RenderTextBlended(line, color)
		if err != nil || surf == nil {
			s.log.Warn("render text", zap.String("text", line), zap.Error(err))
			continue
		}
		tex, err := s.renderer.CreateTextureFromSurface(surf)
		if err == nil {
			r := sdl.FRect{X: (float32(s.w) - float32(surf.W)) / 2, Y: y, W: float32(surf.W), H: float32(surf.H)}
			s.renderer.RenderTexture(tex, nil, &r)
			tex.Destroy()
		}
		y += float32(surf.H)
		surf.Destroy()
	}
	return y
}

func (s *Screen) Fixation() {
	s.clear()
	s.drawFixation()
	s.present()
}

func (s *Screen) DotCloud(dots []engine.Dot) {
	s.clear()
	s.drawDots(dots)
	s.present()
}

func (s *Screen) Composite(c engine.Composite) {
	s.clear()
	s.drawComposite(c, s.center())
	s.present()
}

func (s *Screen) Choices(l engine.ChoiceLayout) {
	s.clear()
	s.drawFixation()
	s.drawChoices(l, s.center())
	s.present()
}

func (s *Screen) Feedback(f engine.Feedback) {
	s.clear()
	s.drawText(s.largeFont, f.String(), feedbackColors[f], float32(s.h)/2-50)
	s.present()
}

func (s *Screen) ColorProbe() {
	s.clear()
	s.drawFixation()
	c := s.center()
	s.setColor(red)
	for _, r := range discSpans(c.Add(mat32.Vec2{X: -probeOffsetX}), probeRadius) {
		s.renderer.RenderFillRect(&r)
	}
	s.setColor(yellow)
	for _, r := range discSpans(c.Add(mat32.Vec2{X: probeOffsetX}), probeRadius) {
		s.renderer.RenderFillRect(&r)
	}
	s.present()
}

func (s *Screen) Message(text string) {
	s.clear()
	s.drawText(s.font, text, black, float32(s.h)/3)
	s.present()
}

func (s *Screen) Instructions(screen engine.TutorialScreen) {
	s.clear()
	y := s.drawText(s.largeFont, screen.Title, black, 40)
	y = s.drawText(s.font, screen.Text, black, y+20)

	example := mat32.Vec2{X: float32(s.w) / 2, Y: (y + float32(s.h)) / 2}
	switch screen.Kind {
	case engine.ScreenDotCloud:
		for _, d := range screen.Dots {
			if d.Color == engine.ColorRed {
				s.setColor(red)
			} else {
				s.setColor(yellow)
			}
			r := centered(example.Add(d.Pos.MulScalar(tutorialScale)), 2*dotRadius, 2*dotRadius)
			s.renderer.RenderFillRect(&r)
		}
	case engine.ScreenComposite:
		s.drawComposite(screen.Composite, example)
	case engine.ScreenIcons:
		s.drawChoices(screen.Layout, example)
	}
	s.drawText(s.font, "Press the right arrow key to continue", black, float32(s.h)-80)
	s.present()
}

func (s *Screen) CloudRadius() float64 {
	return float64(min(s.w, s.h)) / 5
}

// Poll returns the next key press or quit request. Other SDL events are
// discarded.
func (s *Screen) Poll() (engine.Event, bool) {
	if s.quit {
		return engine.Event{Type: engine.EventQuit}, true
	}
	var ev sdl.Event
	for sdl.PollEvent(&ev) {
		switch ev.Type {
		case sdl.EVENT_QUIT:
			s.quit = true
			return engine.Event{Type: engine.EventQuit}, true
		case sdl.EVENT_KEY_DOWN:
			key := engine.KeyOther
			switch ev.KeyboardEvent().Key {
			case sdl.K_UP:
				key = engine.KeyUp
			case sdl.K_DOWN:
				key = engine.KeyDown
			case sdl.K_LEFT:
				key = engine.KeyLeft
			case sdl.K_RIGHT:
				key = engine.KeyRight
			case sdl.K_ESCAPE:
				key = engine.KeyEscape
			}
			return engine.Event{Type: engine.EventKey, Key: key}, true
		}
	}
	return engine.Event{}, false
}

// Clear drops pending key presses. A quit request is kept.
func (s *Screen) Clear() {
	var ev sdl.Event
	for sdl.PollEvent(&ev) {
		if ev.Type == sdl.EVENT_QUIT {
			s.quit = true
		}
	}
}
