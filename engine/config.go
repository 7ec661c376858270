package engine

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Method string

const (
	MethodBEH  Method = "BEH"
	MethodFMRI Method = "fMRI"
)

// PracticeBlock is the block identifier of a practice run.
const PracticeBlock = "practice"

// MinTrials keeps the smallest switch offset, round(n/4)-10, at two trials or
// more. Adjacent switch trials sharing the label of a four-trial run would
// stretch it to six.
const MinTrials = 46

type Config struct {
	Method  Method `yaml:"method"`
	Subject string `yaml:"subject"`
	Block   string `yaml:"block"`

	EasiestDiff float64 `yaml:"easiest_diff"`
	EasyDiff    float64 `yaml:"easy_diff"`
	MediumDiff  float64 `yaml:"medium_diff"`
	HardDiff    float64 `yaml:"hard_diff"`

	ISILow  float64 `yaml:"isi_low"`
	ISIHigh float64 `yaml:"isi_high"`
	ITILow  float64 `yaml:"iti_low"`
	ITIHigh float64 `yaml:"iti_high"`

	SelfGuided       bool    `yaml:"self_guided"`
	Tutorial         bool    `yaml:"tutorial"`
	StimulusDuration float64 `yaml:"stimulus_duration"`
	ResponseWindow   float64 `yaml:"response_window"`

	NTrials      int    `yaml:"n_trials"`
	NDots        int    `yaml:"n_dots"`
	Seed         uint64 `yaml:"seed"`
	OutputDir    string `yaml:"output_dir"`
	SchedulePath string `yaml:"schedule_path"`

	FacesDir  string `yaml:"faces_dir"`
	ScenesDir string `yaml:"scenes_dir"`
	IconsDir  string `yaml:"icons_dir"`

	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	Fullscreen   bool   `yaml:"fullscreen"`
	VSync        bool   `yaml:"vsync"`
	FontFile     string `yaml:"font_file"`
	FontSize     int    `yaml:"font_size"`
	DLPDevice    string `yaml:"dlp_device"`
}

func DefaultConfig() *Config {
	return &Config{
		Method:           MethodBEH,
		Block:            "0",
		EasiestDiff:      0.30,
		EasyDiff:         0.18,
		MediumDiff:       0.12,
		HardDiff:         0.06,
		ISILow:           0.1,
		ISIHigh:          0.5,
		ITILow:           3,
		ITIHigh:          6,
		StimulusDuration: 1.5,
		ResponseWindow:   5,
		NTrials:          80,
		NDots:            1000,
		OutputDir:        ".",
		FacesDir:         "faces",
		ScenesDir:        "scenes",
		IconsDir:         "icons",
		ScreenWidth:      1920,
		ScreenHeight:     1080,
		Fullscreen:       true,
		VSync:            true,
		FontSize:         50,
	}
}

// ValidationError names the offending field so the form can stay open on it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (cfg *Config) IsPractice() bool { return cfg.Block == PracticeBlock }

func (cfg *Config) Validate() error {
	switch cfg.Method {
	case MethodBEH, MethodFMRI:
	default:
		return invalid("method", "must be %s or %s, got %q", MethodBEH, MethodFMRI, cfg.Method)
	}
	if cfg.Subject == "" {
		return invalid("subject", "required")
	}
	if !cfg.IsPractice() {
		n, err := strconv.Atoi(cfg.Block)
		if err != nil || n < 0 || n > 6 {
			return invalid("block", "must be 0-6 or %q, got %q", PracticeBlock, cfg.Block)
		}
	}

	diffs := []struct {
		name string
		v    float64
	}{
		{"easiest_diff", cfg.EasiestDiff},
		{"easy_diff", cfg.EasyDiff},
		{"medium_diff", cfg.MediumDiff},
		{"hard_diff", cfg.HardDiff},
	}
	for i, d := range diffs {
		if d.v <= 0 || d.v >= 1 {
			return invalid(d.name, "must be in (0, 1), got %g", d.v)
		}
		if i > 0 && d.v >= diffs[i-1].v {
			return invalid(d.name, "must be smaller than %s (%g), got %g", diffs[i-1].name, diffs[i-1].v, d.v)
		}
	}

	if err := checkInterval("isi", cfg.ISILow, cfg.ISIHigh); err != nil {
		return err
	}
	if err := checkInterval("iti", cfg.ITILow, cfg.ITIHigh); err != nil {
		return err
	}
	if cfg.StimulusDuration <= 0 {
		return invalid("stimulus_duration", "must be positive, got %g", cfg.StimulusDuration)
	}
	if cfg.ResponseWindow <= 0 {
		return invalid("response_window", "must be positive, got %g", cfg.ResponseWindow)
	}
	if cfg.NTrials < MinTrials {
		return invalid("n_trials", "must be at least %d, got %d", MinTrials, cfg.NTrials)
	}
	if cfg.NDots <= 0 {
		return invalid("n_dots", "must be positive, got %d", cfg.NDots)
	}
	if cfg.Method == MethodFMRI && cfg.SchedulePath == "" {
		return invalid("schedule_path", "required for %s", MethodFMRI)
	}
	return nil
}

func checkInterval(name string, low, high float64) error {
	if low <= 0 {
		return invalid(name+"_low", "must be positive, got %g", low)
	}
	if high <= 0 {
		return invalid(name+"_high", "must be positive, got %g", high)
	}
	if low > high {
		return invalid(name+"_low", "must not exceed %s_high (%g), got %g", name, high, low)
	}
	return nil
}

// Diff returns the proportion difference configured for a difficulty label.
func (cfg *Config) Diff(d Difficulty) float64 {
	switch d {
	case Easiest:
		return cfg.EasiestDiff
	case Easy:
		return cfg.EasyDiff
	case Medium:
		return cfg.MediumDiff
	default:
		return cfg.HardDiff
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// LoadConfig reads a YAML session file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
