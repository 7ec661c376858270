package engine

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const CacheFile = ".dotcloud_cache.yaml"

// FormField is one text box of the operator form.
type FormField struct {
	Key   string
	Label string
	Hint  string
}

var FormFields = []FormField{
	{"method", "Method", "BEH or fMRI (fMRI: 6 s lead-in, 10 s tail)"},
	{"subject", "Subject ID", ""},
	{"block", "Block", "0-6 or practice (practice reports the 70% threshold)"},
	{"isi_low", "ISI lower bound", "seconds between cue and target"},
	{"isi_high", "ISI upper bound", "seconds between cue and target"},
	{"iti_low", "ITI lower bound", "seconds between trials"},
	{"iti_high", "ITI upper bound", "seconds between trials"},
	{"easiest_diff", "Easiest proportion difference", "0 = 50-50 red/yellow, 1 = one colour"},
	{"easy_diff", "Easy proportion difference", "0 = 50-50 red/yellow, 1 = one colour"},
	{"medium_diff", "Medium proportion difference", "0 = 50-50 red/yellow, 1 = one colour"},
	{"hard_diff", "Hard proportion difference", "0 = 50-50 red/yellow, 1 = one colour"},
	{"stimulus_duration", "Stimulus presentation time", "dot cloud presentation, seconds"},
	{"response_window", "Face/scene response window", "seconds"},
	{"schedule_path", "ITI schedule (fMRI)", "file or folder of schedule files"},
}

// Form holds the raw operator entries. It is what the setup screen edits
// and what the cache file stores.
type Form struct {
	Values     map[string]string `yaml:"values"`
	SelfGuided bool              `yaml:"self_guided"`
	Tutorial   bool              `yaml:"tutorial"`
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// NewForm fills the entries from cfg.
func NewForm(cfg *Config) *Form {
	return &Form{
		Values: map[string]string{
			"method":            string(cfg.Method),
			"subject":           cfg.Subject,
			"block":             cfg.Block,
			"isi_low":           fmtFloat(cfg.ISILow),
			"isi_high":          fmtFloat(cfg.ISIHigh),
			"iti_low":           fmtFloat(cfg.ITILow),
			"iti_high":          fmtFloat(cfg.ITIHigh),
			"easiest_diff":      fmtFloat(cfg.EasiestDiff),
			"easy_diff":         fmtFloat(cfg.EasyDiff),
			"medium_diff":       fmtFloat(cfg.MediumDiff),
			"hard_diff":         fmtFloat(cfg.HardDiff),
			"stimulus_duration": fmtFloat(cfg.StimulusDuration),
			"response_window":   fmtFloat(cfg.ResponseWindow),
			"schedule_path":     cfg.SchedulePath,
		},
		SelfGuided: cfg.SelfGuided,
		Tutorial:   cfg.Tutorial,
	}
}

// Apply parses the entries into a copy of base and validates the result.
// base is left untouched on error.
func (f *Form) Apply(base *Config) (*Config, error) {
	for _, field := range FormFields {
		if field.Key == "schedule_path" {
			continue
		}
		if strings.TrimSpace(f.Values[field.Key]) == "" {
			return nil, invalid(field.Key, "all fields must be filled out")
		}
	}

	cfg := *base
	cfg.Method = Method(strings.TrimSpace(f.Values["method"]))
	cfg.Subject = strings.TrimSpace(f.Values["subject"])
	cfg.Block = strings.TrimSpace(f.Values["block"])
	cfg.SchedulePath = strings.TrimSpace(f.Values["schedule_path"])
	cfg.SelfGuided = f.SelfGuided
	cfg.Tutorial = f.Tutorial

	floats := map[string]*float64{
		"isi_low":           &cfg.ISILow,
		"isi_high":          &cfg.ISIHigh,
		"iti_low":           &cfg.ITILow,
		"iti_high":          &cfg.ITIHigh,
		"easiest_diff":      &cfg.EasiestDiff,
		"easy_diff":         &cfg.EasyDiff,
		"medium_diff":       &cfg.MediumDiff,
		"hard_diff":         &cfg.HardDiff,
		"stimulus_duration": &cfg.StimulusDuration,
		"response_window":   &cfg.ResponseWindow,
	}
	for _, field := range FormFields {
		dst, ok := floats[field.Key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(f.Values[field.Key]), 64)
		if err != nil {
			return nil, invalid(field.Key, "not a number: %q", f.Values[field.Key])
		}
		*dst = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (f *Form) SaveCache(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadCache overlays cached entries onto f. A missing cache is not an error.
func (f *Form) LoadCache(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var cached Form
	if err := yaml.Unmarshal(data, &cached); err != nil {
		return fmt.Errorf("parse form cache %s: %w", path, err)
	}
	for k, v := range cached.Values {
		f.Values[k] = v
	}
	f.SelfGuided = cached.SelfGuided
	f.Tutorial = cached.Tutorial
	return nil
}
