package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"
	"github.com/spf13/cobra"

	"dotcloud/engine"
	"dotcloud/present"
)

var runCfg = engine.DefaultConfig()

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one block of the task",
	Long: `Opens the task window and runs one block. Escape or closing the window
ends the block early; the trials completed so far are still written to
HDMRalf_<subject>_<block>_<method>_<timestamp>_data.csv in --output-dir.`,
	Example: `  dotcloud run --subject s01 --block 1
  dotcloud run --config session.yaml --block practice --tutorial`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveConfig(cmd, runCfg); err != nil {
			return err
		}
		if err := runCfg.Validate(); err != nil {
			return err
		}

		defer binsdl.Load().Unload()
		defer binimg.Load().Unload()
		defer binttf.Load().Unload()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		res, err := present.Run(ctx, runCfg, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d trials saved to %s\n", len(res.Records), res.Path)
		if res.Summary != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
		}
		return nil
	},
}

func init() {
	addConfigFlags(runCmd.Flags(), runCfg)
}
