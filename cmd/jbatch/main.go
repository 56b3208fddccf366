package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/jbatch/internal/cli"
	"github.com/example/jbatch/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "jbatch",
		Short:   "jbatch - staged material quantity corrections for JobBOSS",
		Version: version.String(),
		Long: `jbatch stages bulk material-quantity corrections against JobBOSS.
Generate a reviewable batch of XML artifacts plus a manifest, inspect it,
dry-run it, then apply it. Re-running a partially applied manifest resumes
where it left off and never resubmits an applied item.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.ExecuteCmd())
	rootCmd.AddCommand(cli.RunsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
