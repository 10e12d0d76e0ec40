package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"extcall/manifest"
)

func surfaceCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "surface",
		Short: "Print the call surface compiled into this build",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manifest.Builtin()
			if asJSON {
				out, err := json.MarshalIndent(m, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSurface(m))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
	return cmd
}

func renderSurface(m *manifest.Manifest) string {
	var b strings.Builder
	for _, mod := range m.Modules {
		fmt.Fprintf(&b, "%s (module %d)\n", mod.Name, mod.Index)
		for _, fn := range mod.Functions {
			fmt.Fprintf(&b, "  %-14s function %d  versions %s\n",
				fn.Name, fn.Index, versionList(fn.Versions))
		}
		if len(mod.Errors) > 0 {
			fmt.Fprintf(&b, "  errors:\n")
			for _, e := range mod.Errors {
				fmt.Fprintf(&b, "    %d %s (since v%d)\n", e.Code, e.Name, e.Since)
			}
		}
	}
	return b.String()
}

func versionList(versions []uint8) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}
