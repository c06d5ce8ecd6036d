package commands

import (
	"github.com/spf13/cobra"
)

var version = "v0.0.0"

const envFileFlag = "env-file"

// NewRootCMD returns the sessionwatch command tree.
func NewRootCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessionwatch",
		Short: "Inspect and monitor a stored session token",
		Long: `sessionwatch reads the session saved by a host application, reports how long
its token has left and, in watch mode, follows it until it expires or is renewed.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
	}
	cmd.PersistentFlags().StringSlice(envFileFlag, nil, "dotenv files to load before reading the environment (default .env)")

	cmd.AddCommand(
		InspectCommand(),
		WatchCommand(),
		MintCommand(),
		BenchCommand(),
	)

	return cmd
}

func loadConfigFromFlags(cmd *cobra.Command) (Config, error) {
	files, err := cmd.Flags().GetStringSlice(envFileFlag)
	if err != nil {
		return Config{}, err
	}
	return LoadConfig(files...)
}
