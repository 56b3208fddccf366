// Package cli contains the cobra command surface. Commands stay thin:
// flag parsing, service calls, operator-facing output.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/jbatch/internal/config"
	"github.com/example/jbatch/internal/ports/primary"
	"github.com/example/jbatch/internal/wire"
)

// GenerateCmd builds the generate command.
func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate reviewable XML artifacts and a manifest from a material list",
		Long: `Reads a text file of material identifiers (one per line, '#' comments
ignored) and writes, per identifier, a query XML and an update XML plus a
single manifest.json describing the whole batch. Nothing is sent anywhere:
review the manifest, then run 'jbatch execute'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			input, _ := cmd.Flags().GetString("input")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			reason, _ := cmd.Flags().GetString("reason")
			quantity, _ := cmd.Flags().GetInt("quantity")
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			if reason == "" {
				cfg, err := config.LoadConfig(".")
				if err != nil {
					return err
				}
				reason = cfg.ReasonID
			}

			resp, err := wire.GeneratorService().Generate(ctx, primary.GenerateRequest{
				InputPath: input,
				OutputDir: outputDir,
				ReasonID:  reason,
				Quantity:  quantity,
				Overwrite: overwrite,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Generated batch of %d material(s) in %s\n", len(resp.Items), outputDir)
			for _, item := range resp.Items {
				fmt.Printf("  %s: %s, %s\n", item.ID, item.QueryPath, item.UpdatePath)
			}
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Printf("  1. Review the manifest: %s\n", resp.ManifestPath)
			fmt.Printf("  2. Validate the batch:  jbatch execute --manifest %s\n", resp.ManifestPath)
			fmt.Printf("  3. Apply it for real:   jbatch execute --manifest %s --live\n", resp.ManifestPath)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "text file with material identifiers, one per line")
	cmd.Flags().StringP("output-dir", "o", filepath.Join(".", "pending_updates"), "directory for XML artifacts and the manifest")
	cmd.Flags().StringP("reason", "r", "", "adjustment reason code (default from config)")
	cmd.Flags().IntP("quantity", "q", -1, "signed on-hand adjustment per material")
	cmd.Flags().Bool("overwrite", false, "replace an existing manifest in the output directory")
	cmd.MarkFlagRequired("input")

	return cmd
}
