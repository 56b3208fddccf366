package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/jbatch/internal/wire"
)

// RunsCmd builds the runs command group.
func RunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect executor run history",
	}
	cmd.AddCommand(runsListCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent executor runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			runs, err := wire.RunRepository().List(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			for _, r := range runs {
				outcome := color.New(color.FgGreen).Sprint(r.Outcome)
				if r.Outcome != "ok" {
					outcome = color.New(color.FgYellow).Sprint(r.Outcome)
				}
				fmt.Printf("%s  %s  %-7s  %s\n", r.ID, r.StartedAt, r.Mode, outcome)
				fmt.Printf("   manifest: %s\n", r.ManifestPath)
				if r.Mode == "dry_run" {
					fmt.Printf("   %d ok, %d failed, %d skipped\n", r.DryRunOK, r.Failed, r.Skipped)
				} else {
					fmt.Printf("   %d applied, %d failed, %d skipped\n", r.Applied, r.Failed, r.Skipped)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum runs to show")
	return cmd
}
