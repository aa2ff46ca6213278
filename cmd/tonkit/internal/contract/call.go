package contract

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/tonkit/tonkit/cli/service"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/common"
	"github.com/tonkit/tonkit/contracts"
)

func GetCallCommand(cfg *common.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "call [contract] [method] [args...]",
		Short: "Call a method of a deployed sample contract",
		Long:  "Call a method of a deployed sample contract.\n\nMethods:\n" + methodsHelp(),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, args, cfg)
		},
		SilenceUsage: true,
	}
}

func runCall(cmd *cobra.Command, args []string, cfg *common.Config) error {
	conn, err := common.Connect(cmd.Context(), cfg, common.NetName)
	if err != nil {
		return err
	}
	defer conn.Close()

	target, err := common.LoadSample(conn.Service, cfg, args[0])
	if err != nil {
		return err
	}
	_, err = conn.Service.Call(cmd.Context(), service.CallParams{
		Sample: target.Sample,
		Keys:   target.Keys,
		Image:  target.Image,
		Method: args[1],
		Args:   args[2:],
	})
	return err
}

func methodsHelp() string {
	var b strings.Builder
	for _, name := range contracts.Names() {
		sample, err := contracts.Lookup(name)
		if err != nil {
			continue
		}
		for _, method := range sample.MethodNames() {
			m, _ := sample.Method(method)
			b.WriteString("  " + name + " " + method)
			for _, arg := range m.Args {
				b.WriteString(" <" + arg + ">")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
