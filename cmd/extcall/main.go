// Command extcall inspects and exercises the extension-call surface:
// it prints the surface compiled into this build, diffs it against an
// environment's published manifest, and replays scripted call
// sequences against the reference sandbox.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build metadata, set via ldflags:
//
//	-ldflags "-X main.version=v1.2.0 -X main.commit=<sha>"
var (
	version = "dev"
	commit  = "none"
)

func main() {
	root := &cobra.Command{
		Use:          "extcall",
		Short:        "Tooling for the sandboxed extension-call surface",
		SilenceUsage: true,
	}
	root.AddCommand(surfaceCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(simCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "extcall %s (%s)\n", version, commit)
		},
	}
}
