package cmd

import (
	"github.com/ostafen/fatdisk/internal/env"
	"github.com/ostafen/fatdisk/internal/logger"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           env.AppName,
		Short:         env.AppName + " - FAT12 disk image tool",
		Version:       env.Version,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString(flagLogLevel)
			_, err := logger.ParseLevel(level)
			return err
		},
	}

	rootCmd.PersistentFlags().String(flagLogLevel, "INFO", "log level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(
		DefineInfoCommand(),
		DefineListCommand(),
		DefineGetCommand(),
		DefinePutCommand(),
		DefineMkdirCommand(),
		DefineMkfsCommand(),
		DefineMountCommand(),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
