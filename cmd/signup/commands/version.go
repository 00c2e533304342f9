package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/signup/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := version.Get()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", serviceName, v.String())
			if v.BuildTime != "" {
				fmt.Fprintf(out, "built:  %s\n", v.BuildTime)
			}
			fmt.Fprintf(out, "go:     %s\n", v.GoVersion)
			return nil
		},
	}
}
