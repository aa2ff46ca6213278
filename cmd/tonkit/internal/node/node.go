package node

import (
	"github.com/spf13/cobra"
	"github.com/tonkit/tonkit/cli/service"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/common"
)

func GetUpCommand(cfg *common.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Start a local node and wait until it answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, net, err := cfg.Network(common.NetName)
			if err != nil {
				return err
			}
			if net, err = cfg.NodeNetwork(net); err != nil {
				return err
			}
			s := common.NewService(nil, cfg, name, net)
			return s.Up(cmd.Context(), service.NodeParams{
				Command: cfg.Node.Command,
				Args:    cfg.Node.Args,
			}, common.Dial(net))
		},
		SilenceUsage: true,
	}
}
