package main

import (
	"fmt"
	"os"

	"github.com/mattsolo1/grove-core/cli"
	coreconfig "github.com/mattsolo1/grove-core/config"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-udon/cmd"
	cmdconfig "github.com/mattsolo1/grove-udon/cmd/config"
	udonconfig "github.com/mattsolo1/grove-udon/pkg/config"
	"github.com/mattsolo1/grove-udon/pkg/service"
)

var svc *service.Service

func main() {
	rootCmd := cli.NewStandardCommand(
		"udon",
		"Paste clipboard images into notes",
	)
	cmdconfig.AddGlobalFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// This runs once before any subcommand
		cmdconfig.ReadGlobalFlags(cmd)
		cmdconfig.InitConfig()
		logger := cmdconfig.NewLogger()

		// 1. Load configuration using grove-core
		cfg, err := coreconfig.LoadDefault()
		if err != nil {
			// Non-fatal, proceed with an empty config for local mode.
			cfg = &coreconfig.Config{}
			logger.Debugf("could not load grove config, proceeding in local mode: %v", err)
		}

		// 2. Initialize the main service
		svc, err = cmdconfig.InitService(udonconfig.FromGrove(cfg), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}
		return nil
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if svc == nil {
			return nil
		}
		return svc.Close()
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewPasteCmd(&svc))
	rootCmd.AddCommand(cmd.NewEvalCmd(&svc))
	rootCmd.AddCommand(cmd.NewRuleCmd(&svc))
	rootCmd.AddCommand(cmd.NewWorkspaceCmd(&svc))
	rootCmd.AddCommand(cmd.NewHistoryCmd(&svc))
	rootCmd.AddCommand(cmd.NewInstallCmd(&svc))
	rootCmd.AddCommand(cmd.NewConfigCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
