package commands

import (
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
)

// Execute runs the CLI.
func Execute() error {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "User self-registration service",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./cmd/signup/config.yml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file (default .env)")

	root.AddCommand(serveCmd(), submitCmd(), versionCmd())
	return root.Execute()
}
