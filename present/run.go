package present

import (
	"context"
	"fmt"
	"os"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"go.uber.org/zap"

	"dotcloud/engine"
)

const dlpBaudRate = 9600

// body text is drawn at this fraction of the configured font size
const bodyFontScale = 0.6

// Run opens the task window and runs one block. The trial log is written
// even when the operator aborts.
func Run(ctx context.Context, cfg *engine.Config, log *zap.Logger) (*engine.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL init: %w", err)
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("TTF init: %w", err)
	}
	defer ttf.Quit()

	windowFlags := sdl.WINDOW_RESIZABLE
	if cfg.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}
	window, renderer, err := sdl.CreateWindowAndRenderer("Dot Cloud Task", cfg.ScreenWidth, cfg.ScreenHeight, windowFlags)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()

	if cfg.VSync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
	}

	fontPath := resolveFont(cfg.FontFile, fontDir)
	var body, large *ttf.Font
	if fontPath != "" {
		if body, err = ttf.OpenFont(fontPath, float32(cfg.FontSize)*bodyFontScale); err != nil {
			log.Warn("failed to load font", zap.String("path", fontPath), zap.Error(err))
		}
		if large, err = ttf.OpenFont(fontPath, float32(cfg.FontSize)); err != nil {
			log.Warn("failed to load font", zap.String("path", fontPath), zap.Error(err))
		}
	} else {
		log.Warn("no font found, text screens will be blank")
	}
	defer func() {
		if body != nil {
			body.Close()
		}
		if large != nil {
			large.Close()
		}
	}()

	cache := NewResourceCache(renderer, log)
	defer cache.Destroy()
	if err := cache.LoadAssets(cfg); err != nil {
		return nil, err
	}

	rng := engine.NewRand(cfg.Seed, log)
	var schedule *engine.Schedule
	if cfg.Method == engine.MethodFMRI {
		if schedule, err = engine.LoadSchedule(cfg.SchedulePath, rng, log); err != nil {
			return nil, err
		}
	}

	var trigger engine.Trigger
	if cfg.DLPDevice != "" {
		dlp, err := OpenDLPIO8G(cfg.DLPDevice, dlpBaudRate, log)
		if err != nil {
			log.Warn("failed to initialize DLP device", zap.String("device", cfg.DLPDevice), zap.Error(err))
		} else {
			defer dlp.Close()
			trigger = dlp
		}
	}

	screen := NewScreen(renderer, body, large, cfg.ScreenWidth, cfg.ScreenHeight, cfg.VSync, log)

	session, err := engine.NewSession(cfg, engine.Options{
		Input:    screen,
		Display:  screen,
		Assets:   cache,
		Trigger:  trigger,
		Schedule: schedule,
		Logger:   log,
		Rand:     rng,
	})
	if err != nil {
		return nil, err
	}

	res, err := session.Run(ctx)
	if err != nil {
		return res, err
	}
	session.Logger().Info("session done", zap.Bool("aborted", res.Aborted), zap.Float64("accuracy", res.Accuracy))
	return res, nil
}
