package contract

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tonkit/tonkit/cli/service"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/common"
)

func GetInfoCommand(cfg *common.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "info [contract]",
		Short: "Print the address, balance and account type of a sample contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := common.Connect(cmd.Context(), cfg, common.NetName)
			if err != nil {
				return err
			}
			defer conn.Close()

			target, err := common.LoadSample(conn.Service, cfg, args[0])
			if err != nil {
				return err
			}
			return conn.Service.Info(cmd.Context(), service.InfoParams{
				Sample: target.Sample,
				Keys:   target.Keys,
				Image:  target.Image,
			})
		},
		SilenceUsage: true,
	}
}

func GetAddressCommand(cfg *common.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "address [contract]",
		Short: "Print the address of a sample contract",
		Long:  "Print the address of a sample contract computed from its keys and code image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := common.Connect(cmd.Context(), cfg, common.NetName)
			if err != nil {
				return err
			}
			defer conn.Close()

			target, err := common.LoadSample(conn.Service, cfg, args[0])
			if err != nil {
				return err
			}
			addr, err := conn.Service.Address(cmd.Context(), service.InfoParams{
				Sample: target.Sample,
				Keys:   target.Keys,
				Image:  target.Image,
			})
			if err != nil {
				return err
			}
			if !common.Quiet {
				fmt.Print("Address: ")
			}
			fmt.Println(addr.StringRaw())
			return nil
		},
		SilenceUsage: true,
	}
}
