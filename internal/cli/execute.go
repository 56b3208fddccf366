package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/jbatch/internal/adapters/jobboss"
	"github.com/example/jbatch/internal/config"
	"github.com/example/jbatch/internal/ports/primary"
	"github.com/example/jbatch/internal/ports/secondary"
	"github.com/example/jbatch/internal/wire"
)

// ExitPartialFailure is the exit code for a run that completed with at
// least one failed item. Distinct from 1, which means the run never
// processed the batch at all.
const ExitPartialFailure = 2

// ExecuteCmd builds the execute command.
func ExecuteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Replay a reviewed manifest against JobBOSS (dry-run by default)",
		Long: `Iterates the manifest's work items in order. Without --live this is a
dry run: every update document is checked for well-formedness and the
mutating endpoint is never contacted. With --live each item is queried and
then submitted; items already applied are always skipped, and one item's
failure never aborts the rest. The manifest is re-persisted after every
item, so an interrupted run can simply be re-executed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifestPath, _ := cmd.Flags().GetString("manifest")
			live, _ := cmd.Flags().GetBool("live")
			preview, _ := cmd.Flags().GetBool("preview")
			endpoint, _ := cmd.Flags().GetString("endpoint")

			cfg, err := config.LoadConfig(".")
			if err != nil {
				return err
			}
			if endpoint == "" {
				endpoint = cfg.Endpoint
			}

			mode := primary.ModeDryRun
			if live {
				mode = primary.ModeLive
			}

			// Operator interrupt: the executor finishes and persists the
			// in-flight item, then stops.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var transport secondary.Transport
			if live || preview {
				if endpoint == "" {
					return fmt.Errorf("no JobBOSS endpoint: set --endpoint or .jbatch/config.json")
				}
				creds, err := jobboss.CredentialsFromEnv()
				if err != nil {
					return err
				}
				tr := jobboss.NewHTTPTransport(endpoint, creds, cfg.Timeout())
				defer tr.Close(context.Background())
				transport = tr
			}

			svc := wire.ExecutorService(transport, cfg.Timeout())
			summary, err := svc.Execute(ctx, primary.ExecuteRequest{
				ManifestPath: manifestPath,
				Mode:         mode,
				Preview:      preview,
			})
			if err != nil {
				return err
			}

			printSummary(summary)

			if summary.PartialFailure {
				// os.Exit skips the deferred Close; release the bridge
				// session before leaving.
				if transport != nil {
					transport.Close(context.Background())
				}
				os.Exit(ExitPartialFailure)
			}
			return nil
		},
	}

	cmd.Flags().StringP("manifest", "m", "", "path to the batch manifest")
	cmd.Flags().Bool("live", false, "submit updates for real instead of dry-running")
	cmd.Flags().Bool("preview", false, "during a dry run, query current on-hand state (non-mutating)")
	cmd.Flags().String("endpoint", "", "JobBOSS bridge URL (overrides config)")
	cmd.MarkFlagRequired("manifest")

	return cmd
}

func printSummary(summary *primary.ExecuteSummary) {
	for _, o := range summary.Outcomes {
		switch {
		case o.Skipped:
			fmt.Printf("%s %s already applied, skipped\n", color.New(color.FgHiBlack).Sprint("-"), o.ID)
		case o.Error != "":
			fmt.Printf("%s %s %s\n", color.New(color.FgRed).Sprint("✗"), o.ID, o.Error)
		case o.OnHand != "":
			fmt.Printf("%s %s %s (on hand: %s)\n", color.New(color.FgGreen).Sprint("✓"), o.ID, o.Status, o.OnHand)
		default:
			fmt.Printf("%s %s %s\n", color.New(color.FgGreen).Sprint("✓"), o.ID, o.Status)
		}
	}

	fmt.Println()
	if summary.Mode == primary.ModeDryRun {
		fmt.Printf("Dry run: %d ok, %d failed, %d skipped (already applied)\n",
			summary.DryRunOK, summary.Failed, summary.Skipped)
		if !summary.PartialFailure {
			fmt.Println("No changes were made. Re-run with --live to apply.")
		}
	} else {
		fmt.Printf("Live run: %d applied, %d failed, %d skipped (already applied)\n",
			summary.Applied, summary.Failed, summary.Skipped)
	}
	if summary.PartialFailure {
		color.New(color.FgYellow).Println("Completed with failures; see the manifest's last_error fields. Re-running will retry only unapplied items.")
	}
}
