package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/artifacts"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/common"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/config"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/contract"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/keygen"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/node"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/version"
	"github.com/tonkit/tonkit/common/concurrent"
	"github.com/tonkit/tonkit/common/logging"
)

type RootCommand struct {
	baseCmd  *cobra.Command
	config   common.Config
	cfgFile  string
	logLevel string
}

var logger = logging.NewLogger("rootCommand")

var noConfigCmd map[string]struct{} = map[string]struct{}{
	"help":       {},
	"completion": {},
	"config":     {},
	"keygen":     {},
	"version":    {},
}

func main() {
	logging.SetLogSeverityFromEnv()
	cobra.EnableTraverseRunHooks = true

	var rootCmd *RootCommand

	rootCmd = &RootCommand{
		baseCmd: &cobra.Command{
			Use:   "tonkit",
			Short: "Deploy and call TON contracts from the command line",
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				if rootCmd.logLevel != "" {
					if err := logging.TrySetupGlobalLevel(rootCmd.logLevel); err != nil {
						return err
					}
				}
				if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("failed to load .env: %w", err)
				}
				if withoutConfig(cmd) {
					return nil
				}
				return rootCmd.loadConfig()
			},
		},
	}

	flags := rootCmd.baseCmd.PersistentFlags()
	flags.StringVarP(&rootCmd.cfgFile, "config", "c", "", "Path to config file (default is ./tonkit.yaml or ~/.config/tonkit/config.yaml)")
	flags.StringVarP(&common.NetName, "net", "n", "", "Network from the config file (default is $NET or default_net)")
	flags.StringVarP(&rootCmd.logLevel, "log-level", "l", "", "Log level: trace|debug|info|warn|error|fatal|panic")
	flags.BoolVarP(&common.Quiet, "quiet", "q", false, "Print only the results")

	rootCmd.registerSubCommands()
	rootCmd.Execute()
}

// withoutConfig reports whether cmd or one of its parents runs without the config file.
func withoutConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := noConfigCmd[c.Name()]; ok {
			return true
		}
	}
	return false
}

// registerSubCommands adds all subcommands to the root command
func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		contract.GetDeployCommand(&rc.config),
		contract.GetCallCommand(&rc.config),
		contract.GetInfoCommand(&rc.config),
		contract.GetAddressCommand(&rc.config),
		node.GetUpCommand(&rc.config),
		artifacts.GetMakeCommand(&rc.config),
		artifacts.GetCopyCommand(&rc.config),
		keygen.GetCommand(),
		config.GetCommand(&rc.cfgFile),
		version.GetCommand(),
	)

	logger.Trace().Msg("Subcommands registered")
}

// loadConfig loads the configuration from the config file
func (rc *RootCommand) loadConfig() error {
	common.SetConfigFile(rc.cfgFile)

	cfg, err := common.LoadConfig()
	if err != nil {
		return err
	}
	rc.config = *cfg

	logger.Debug().Str(logging.FieldFile, common.ConfigPath(rc.cfgFile)).Msg("Configuration loaded successfully")
	return nil
}

// Execute runs the root command and handles any errors
func (rc *RootCommand) Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	go concurrent.OnSignal(ctx, cancel, syscall.SIGINT, syscall.SIGTERM)

	err := rc.baseCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}

	logger.Trace().Msg("Command executed successfully")
}
