package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dotcloud/engine"
)

var validateCmd = &cobra.Command{
	Use:   "validate [session.yaml]",
	Short: "Check a session file",
	Long: `Loads a YAML session file, validates every setting and, for fMRI sessions,
checks that the ITI schedule holds an ISI/ITI pair for every trial.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no session file: pass one or use --config")
		}
		cfg, err := engine.LoadConfig(path)
		if err != nil {
			return err
		}
		if err := checkConfig(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		return nil
	},
}

func checkConfig(cfg *engine.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := engine.NewPlanner(cfg.NTrials, cfg.IsPractice(), engine.NewRand(cfg.Seed, logger)); err != nil {
		return err
	}
	if cfg.Method != engine.MethodFMRI {
		return nil
	}
	schedule, err := engine.LoadSchedule(cfg.SchedulePath, engine.NewRand(cfg.Seed, logger), logger)
	if err != nil {
		return err
	}
	return schedule.Require(cfg.NTrials)
}
