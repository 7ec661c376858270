package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dotcloud/engine"
)

// addConfigFlags binds one flag per session setting to the fields of cfg.
func addConfigFlags(fs *pflag.FlagSet, cfg *engine.Config) {
	fs.StringVar((*string)(&cfg.Method), "method", string(cfg.Method), "BEH or fMRI")
	fs.StringVarP(&cfg.Subject, "subject", "s", cfg.Subject, "Subject ID")
	fs.StringVarP(&cfg.Block, "block", "b", cfg.Block, "Block 0-6 or practice")

	fs.Float64Var(&cfg.EasiestDiff, "easiest-diff", cfg.EasiestDiff, "Easiest red/yellow proportion difference")
	fs.Float64Var(&cfg.EasyDiff, "easy-diff", cfg.EasyDiff, "Easy proportion difference")
	fs.Float64Var(&cfg.MediumDiff, "medium-diff", cfg.MediumDiff, "Medium proportion difference")
	fs.Float64Var(&cfg.HardDiff, "hard-diff", cfg.HardDiff, "Hard proportion difference")

	fs.Float64Var(&cfg.ISILow, "isi-low", cfg.ISILow, "ISI lower bound (s)")
	fs.Float64Var(&cfg.ISIHigh, "isi-high", cfg.ISIHigh, "ISI upper bound (s)")
	fs.Float64Var(&cfg.ITILow, "iti-low", cfg.ITILow, "ITI lower bound (s)")
	fs.Float64Var(&cfg.ITIHigh, "iti-high", cfg.ITIHigh, "ITI upper bound (s)")

	fs.BoolVar(&cfg.SelfGuided, "self-guided", cfg.SelfGuided, "Wait for a key between trials instead of the ITI")
	fs.BoolVar(&cfg.Tutorial, "tutorial", cfg.Tutorial, "Show the instruction screens first")
	fs.Float64Var(&cfg.StimulusDuration, "stimulus-duration", cfg.StimulusDuration, "Dot cloud duration (s)")
	fs.Float64Var(&cfg.ResponseWindow, "response-window", cfg.ResponseWindow, "Face/scene response window (s)")

	fs.IntVar(&cfg.NTrials, "n-trials", cfg.NTrials, "Trials per block")
	fs.IntVar(&cfg.NDots, "n-dots", cfg.NDots, "Dots per cloud")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed, 0 picks one from the clock")
	fs.StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "Directory for the trial log")
	fs.StringVar(&cfg.SchedulePath, "schedule", cfg.SchedulePath, "fMRI ITI schedule file or folder")

	fs.StringVar(&cfg.FacesDir, "faces-dir", cfg.FacesDir, "Folder with male/ and female/ face images")
	fs.StringVar(&cfg.ScenesDir, "scenes-dir", cfg.ScenesDir, "Folder with rural/ and urban/ scene images")
	fs.StringVar(&cfg.IconsDir, "icons-dir", cfg.IconsDir, "Folder with the four choice icons")

	fs.IntVar(&cfg.ScreenWidth, "width", cfg.ScreenWidth, "Screen width")
	fs.IntVar(&cfg.ScreenHeight, "height", cfg.ScreenHeight, "Screen height")
	fs.BoolVar(&cfg.Fullscreen, "fullscreen", cfg.Fullscreen, "Fullscreen window")
	fs.BoolVar(&cfg.VSync, "vsync", cfg.VSync, "Sync presentation to the display refresh")
	fs.StringVar(&cfg.FontFile, "font", cfg.FontFile, "TTF font file")
	fs.IntVar(&cfg.FontSize, "font-size", cfg.FontSize, "Title font size")
	fs.StringVar(&cfg.DLPDevice, "dlp", cfg.DLPDevice, "DLP-IO8-G serial device")
}

// resolveConfig loads --config into cfg, then applies the flags given on
// the command line on top of it.
func resolveConfig(cmd *cobra.Command, cfg *engine.Config) error {
	if configPath == "" {
		return nil
	}
	changed := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	loaded, err := engine.LoadConfig(configPath)
	if err != nil {
		return err
	}
	*cfg = *loaded

	for name, value := range changed {
		if name == "config" || name == "verbose" {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
