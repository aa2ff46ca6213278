package artifacts

import (
	"github.com/spf13/cobra"
	"github.com/tonkit/tonkit/cli/service"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/common"
)

const jobsFlag = "jobs"

var jobs int

// offline returns a service for the commands that do not talk to the network.
func offline(cfg *common.Config) *service.Service {
	return common.NewService(nil, cfg, "", common.NetConfig{})
}

func GetMakeCommand(cfg *common.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make",
		Short: "Compile contracts and generate Go files embedding the artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := cfg.Make
			if cmd.Flags().Changed(jobsFlag) {
				m.Jobs = jobs
			}
			return offline(cfg).Make(cmd.Context(), service.MakeParams{
				Command:  m.Command,
				Root:     m.Root,
				Compile:  m.Compile,
				Wrap:     m.Wrap,
				Compiler: m.Compiler,
				Linker:   m.Linker,
				Stdlib:   m.Stdlib,
				Package:  m.Package,
				Jobs:     m.Jobs,
			})
		},
		SilenceUsage: true,
	}
	cmd.Flags().IntVarP(&jobs, jobsFlag, "j", 1, "Number of contracts compiled at once")
	return cmd
}

func GetCopyCommand(cfg *common.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "copy [patterns...]",
		Short: "Copy template files to their names without the marker word",
		Long: "Copy template files such as keys.example.json to keys.json. " +
			"Patterns default to copy.source of the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			source := cfg.Copy.Source
			if len(args) > 0 {
				source = args
			}
			_, err := offline(cfg).Copy(service.CopyParams{Source: source, Words: cfg.Copy.Words})
			return err
		},
		SilenceUsage: true,
	}
}
