package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"extcall/manifest"
)

func checkCmd() *cobra.Command {
	var manifestPath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Diff an environment manifest against this build",
		Long: "Loads an environment's published surface manifest and compares it\n" +
			"against the surface compiled into this build.\n\n" +
			"Exit code 0 when every published call and code is representable here;\n" +
			"1 when the environment publishes operations, error codes, or version\n" +
			"tags this build cannot express. Operations only this build knows are\n" +
			"reported but do not fail the check.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}
			r := manifest.Diff(m)

			if asJSON {
				out, err := json.MarshalIndent(r, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			} else if r.Clean() {
				fmt.Fprintln(cmd.OutOrStdout(), "surface matches")
			} else {
				fmt.Fprint(cmd.OutOrStdout(), r.String())
			}

			if len(r.EnvironmentOnly) > 0 || len(r.UntranslatedCodes) > 0 || len(r.UnknownVersions) > 0 {
				return fmt.Errorf("%s publishes a surface this build cannot fully represent", manifestPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to the environment manifest (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
	cmd.MarkFlagRequired("manifest")
	return cmd
}
