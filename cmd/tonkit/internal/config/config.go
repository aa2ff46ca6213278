package config

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/common"
	"github.com/tonkit/tonkit/common/logging"
)

var logger = logging.NewLogger("configCommand")

var noConfigCmd map[string]struct{} = map[string]struct{}{
	"help": {},
	"init": {},
}

func GetCommand(configPath *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:          "config",
		Short:        "Configuration management",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			common.SetConfigFile(*configPath)

			if _, withoutConfig := noConfigCmd[cmd.Name()]; withoutConfig {
				return nil
			}

			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Initialize config file",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := common.InitDefaultConfig(common.ConfigPath(*configPath))
			if err != nil {
				logger.Error().Err(err).Msg("Failed to create config")
				return err
			}

			logger.Info().Msgf("Config initialized successfully: %s", path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:          "show",
		Short:        "Show the config file content",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("# %s\n", viper.ConfigFileUsed())
			keys := viper.AllKeys()
			slices.Sort(keys)
			for _, key := range keys {
				fmt.Printf("%s: %v\n", key, viper.Get(key))
			}
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:          "get [key]",
		Short:        "Get a config value",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			value := viper.Get(args[0])
			if value == nil {
				logger.Warn().Msgf("Key %q is not found in config", args[0])
				return nil
			}
			fmt.Println(value)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:          "set [key] [value]",
		Short:        "Set a config value",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsSupportedOption(args[0]) {
				return fmt.Errorf("key %q is not known", args[0])
			}

			if err := common.PatchConfig(map[string]any{
				args[0]: args[1],
			}, true); err != nil {
				logger.Error().Err(err).Msg("Failed to set config value")
				return err
			}
			logger.Info().Msgf("Set %q to %q", args[0], args[1])
			return nil
		},
	}

	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(getCmd)
	configCmd.AddCommand(setCmd)

	return configCmd
}
