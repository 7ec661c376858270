package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dotcloud/engine"
)

var planCfg = engine.DefaultConfig()

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print a block plan without opening a window",
	Long: `Generates the difficulty sequence and context switch trials for one block,
using --n-trials, --block and --seed, and prints them one trial per line.`,
	Example: `  dotcloud plan --n-trials 80 --seed 7
  dotcloud plan --block practice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveConfig(cmd, planCfg); err != nil {
			return err
		}
		planner, err := engine.NewPlanner(planCfg.NTrials, planCfg.IsPractice(), engine.NewRand(planCfg.Seed, logger))
		if err != nil {
			return err
		}
		plan, err := planner.Plan()
		if err != nil {
			return err
		}
		return writePlan(cmd.OutOrStdout(), planCfg, plan)
	},
}

func init() {
	addConfigFlags(planCmd.Flags(), planCfg)
}

func writePlan(w io.Writer, cfg *engine.Config, plan *engine.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "trial\tdifficulty\tdiff\tswitch")
	for t, d := range plan.Difficulties {
		mark := ""
		if plan.IsSwitch(t) {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\n", t+1, d, cfg.Diff(d), mark)
	}
	return tw.Flush()
}
