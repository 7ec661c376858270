package present

import (
	"errors"
	"slices"
	"unicode/utf8"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"go.uber.org/zap"

	"dotcloud/engine"
)

const (
	formWidth   = 900
	formRowH    = 38
	formTop     = 20
	formLabelX  = 30
	formBoxX    = 380
	formBoxW    = 420
	formBrowseX = 810
)

// formState is the editable part of the setup screen.
type formState struct {
	form   *engine.Form
	focus  int
	errMsg string
}

func (st *formState) focused() (engine.FormField, bool) {
	if st.focus < 0 || st.focus >= len(engine.FormFields) {
		return engine.FormField{}, false
	}
	return engine.FormFields[st.focus], true
}

func (st *formState) typeText(text string) {
	if f, ok := st.focused(); ok {
		st.form.Values[f.Key] += text
	}
}

func (st *formState) backspace() {
	f, ok := st.focused()
	if !ok {
		return
	}
	v := st.form.Values[f.Key]
	if len(v) > 0 {
		_, size := utf8.DecodeLastRuneInString(v)
		st.form.Values[f.Key] = v[:len(v)-size]
	}
}

func (st *formState) next() {
	st.focus = (st.focus + 1) % len(engine.FormFields)
}

// submit applies the form to base. On a validation error the form stays
// open with the message shown and the offending field focused.
func (st *formState) submit(base *engine.Config) (*engine.Config, bool) {
	cfg, err := st.form.Apply(base)
	if err != nil {
		st.errMsg = err.Error()
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			if i := slices.IndexFunc(engine.FormFields, func(f engine.FormField) bool { return f.Key == verr.Field }); i >= 0 {
				st.focus = i
			}
		}
		return nil, false
	}
	st.errMsg = ""
	return cfg, true
}

func rowY(i int) float32 { return float32(formTop + i*formRowH) }

// RunGuiSetup shows the operator form until the entries validate or the
// window is closed. The entries are cached in cachePath.
func RunGuiSetup(cfg *engine.Config, cachePath string, log *zap.Logger) (*engine.Config, bool) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Error("SDL init", zap.Error(err))
		return nil, false
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		log.Error("TTF init", zap.Error(err))
		return nil, false
	}
	defer ttf.Quit()

	nFields := len(engine.FormFields)
	checkY := rowY(nFields) + 10
	errY := checkY + 3*30 + 10
	startY := errY + 60
	height := int(startY) + 70

	window, renderer, err := sdl.CreateWindowAndRenderer("Dot Cloud Task Setup", formWidth, height, 0)
	if err != nil {
		log.Error("create setup window", zap.Error(err))
		return nil, false
	}
	defer window.Destroy()
	defer renderer.Destroy()

	fontPath := resolveFont(cfg.FontFile, fontDir)
	if fontPath == "" {
		log.Error("no font found for the setup form")
		return nil, false
	}
	guiFont, err := ttf.OpenFont(fontPath, 16)
	if err != nil {
		log.Error("load setup font", zap.String("path", fontPath), zap.Error(err))
		return nil, false
	}
	defer guiFont.Close()

	st := &formState{form: engine.NewForm(cfg)}
	if err := st.form.LoadCache(cachePath); err != nil {
		log.Warn("ignoring form cache", zap.Error(err))
	}
	base := *cfg
	scheduleIdx := slices.IndexFunc(engine.FormFields, func(f engine.FormField) bool { return f.Key == "schedule_path" })
	picked := make(chan string, 1)

	checks := []struct {
		label string
		value *bool
	}{
		{"Self-guided (any key starts the next trial)", &st.form.SelfGuided},
		{"Show tutorial", &st.form.Tutorial},
		{"Fullscreen", &base.Fullscreen},
	}

	window.StartTextInput()
	defer window.StopTextInput()

	for {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT:
				return nil, false
			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				mx, my := me.X, me.Y
				st.focus = -1
				for i := range engine.FormFields {
					if my >= rowY(i) && my <= rowY(i)+30 {
						if mx >= formBoxX && mx <= formBoxX+formBoxW {
							st.focus = i
						}
						if i == scheduleIdx && mx >= formBrowseX && mx <= formBrowseX+70 {
							cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
								if len(fileList) > 0 {
									select {
									case picked <- fileList[0]:
									default:
									}
								}
							})
							sdl.ShowOpenFolderDialog(cb, window, "", false)
						}
					}
				}
				for i, c := range checks {
					y := checkY + float32(i*30)
					if mx >= formLabelX && mx <= formLabelX+400 && my >= y && my <= y+20 {
						*c.value = !*c.value
					}
				}
				if mx >= formWidth/2-60 && mx <= formWidth/2+60 && my >= startY && my <= startY+40 {
					if out, ok := st.submit(&base); ok {
						saveCache(st.form, cachePath, log)
						return out, true
					}
				}
			case sdl.EVENT_TEXT_INPUT:
				st.typeText(e.TextInputEvent().Text)
			case sdl.EVENT_KEY_DOWN:
				switch e.KeyboardEvent().Key {
				case sdl.K_BACKSPACE:
					st.backspace()
				case sdl.K_TAB:
					st.next()
				case sdl.K_RETURN:
					if out, ok := st.submit(&base); ok {
						saveCache(st.form, cachePath, log)
						return out, true
					}
				}
			}
		}
		select {
		case path := <-picked:
			st.form.Values["schedule_path"] = path
		default:
		}

		renderer.SetDrawColor(240, 240, 240, 255)
		renderer.Clear()
		dark := sdl.Color{R: 0, G: 0, B: 0, A: 255}

		for i, f := range engine.FormFields {
			y := rowY(i)
			renderLabel(renderer, guiFont, f.Label, dark, formLabelX, y+5)

			renderer.SetDrawColor(255, 255, 255, 255)
			box := sdl.FRect{X: formBoxX, Y: y, W: formBoxW, H: 30}
			renderer.RenderFillRect(&box)
			if st.focus == i {
				renderer.SetDrawColor(0, 120, 255, 255)
			} else {
				renderer.SetDrawColor(180, 180, 180, 255)
			}
			renderer.RenderRect(&box)
			if v := st.form.Values[f.Key]; v != "" {
				renderLabel(renderer, guiFont, v, dark, formBoxX+5, y+5)
			}

			if i == scheduleIdx {
				renderer.SetDrawColor(200, 200, 200, 255)
				btn := sdl.FRect{X: formBrowseX, Y: y, W: 70, H: 30}
				renderer.RenderFillRect(&btn)
				renderer.SetDrawColor(0, 0, 0, 255)
				renderer.RenderRect(&btn)
				renderLabel(renderer, guiFont, "...", dark, formBrowseX+25, y+5)
			}
		}

		for i, c := range checks {
			y := checkY + float32(i*30)
			renderer.SetDrawColor(255, 255, 255, 255)
			check := sdl.FRect{X: formLabelX, Y: y, W: 20, H: 20}
			renderer.RenderFillRect(&check)
			renderer.SetDrawColor(0, 0, 0, 255)
			renderer.RenderRect(&check)
			if *c.value {
				mark := sdl.FRect{X: formLabelX + 4, Y: y + 4, W: 12, H: 12}
				renderer.SetDrawColor(0, 150, 0, 255)
				renderer.RenderFillRect(&mark)
			}
			renderLabel(renderer, guiFont, c.label, dark, formLabelX+30, y)
		}

		if st.errMsg != "" {
			renderLabel(renderer, guiFont, st.errMsg, sdl.Color{R: 200, G: 0, B: 0, A: 255}, formLabelX, errY)
		} else if f, ok := st.focused(); ok && f.Hint != "" {
			renderLabel(renderer, guiFont, f.Hint, sdl.Color{R: 90, G: 90, B: 90, A: 255}, formLabelX, errY)
		}

		renderer.SetDrawColor(0, 150, 0, 255)
		startBtn := sdl.FRect{X: formWidth/2 - 60, Y: startY, W: 120, H: 40}
		renderer.RenderFillRect(&startBtn)
		renderLabel(renderer, guiFont, "START", sdl.Color{R: 255, G: 255, B: 255, A: 255}, formWidth/2-25, startY+10)

		renderer.Present()
		sdl.Delay(10)
	}
}

func saveCache(f *engine.Form, path string, log *zap.Logger) {
	if err := f.SaveCache(path); err != nil {
		log.Warn("save form cache", zap.String("path", path), zap.Error(err))
	}
}

func renderLabel(renderer *sdl.Renderer, font *ttf.Font, text string, color sdl.Color, x, y float32) {
	surf, err := font.RenderTextBlended(text, color)
	if err != nil || surf == nil {
		return
	}
	defer surf.Destroy()
	tex, err := renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return
	}
	r := sdl.FRect{X: x, Y: y, W: float32(surf.W), H: float32(surf.H)}
	renderer.RenderTexture(tex, nil, &r)
	tex.Destroy()
}
