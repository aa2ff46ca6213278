package contract

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tonkit/tonkit/cli/service"
	"github.com/tonkit/tonkit/cmd/tonkit/internal/common"
	"github.com/tonkit/tonkit/common/logging"
	"github.com/tonkit/tonkit/contracts"
)

var logger = logging.NewLogger("contractCommand")

var errDeployFailed = errors.New("deploy failed")

func GetDeployCommand(cfg *common.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [contract]",
		Short: "Deploy a sample contract",
		Long: "Deploy a sample contract whose account is funded, " +
			"or fund it from the network giver first with --with-giver",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, args, cfg)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(
		&params.withGiver,
		withGiverFlag,
		false,
		"Top up the account from the network giver if needed",
	)
	cmd.Flags().StringVar(
		&params.params,
		paramsFlag,
		"",
		"Constructor parameters as a JSON object",
	)

	return cmd
}

func runDeploy(cmd *cobra.Command, args []string, cfg *common.Config) error {
	ctx := cmd.Context()

	var input map[string]any
	if params.params != "" {
		var err error
		if input, err = contracts.ReadJSON(params.params); err != nil {
			return fmt.Errorf("invalid --%s: %w", paramsFlag, err)
		}
	}

	conn, err := common.Connect(ctx, cfg, common.NetName)
	if err != nil {
		return err
	}
	defer conn.Close()

	target, err := common.LoadSample(conn.Service, cfg, args[0])
	if err != nil {
		return err
	}
	p := service.DeployParams{
		Sample:                target.Sample,
		Keys:                  target.Keys,
		Image:                 target.Image,
		RequiredForDeployment: cfg.Required(target.Sample.Name),
		Params:                input,
	}

	var status service.DeployStatus
	if params.withGiver {
		giver, err := common.LoadGiver(conn.Service, cfg, conn.Net)
		if err != nil {
			return err
		}
		status, err = conn.Service.DeployWithGiver(ctx, p, service.GiverParams{
			Sample: giver.Sample,
			Keys:   giver.Keys,
			Image:  giver.Image,
		})
		if err != nil {
			return err
		}
	} else if status, err = conn.Service.Deploy(ctx, p); err != nil {
		return err
	}

	logger.Debug().Str(logging.FieldContract, target.Sample.Name).Stringer("status", status).Msg("Deploy finished")
	if status == service.DeployStatusUnconfirmed {
		return errDeployFailed
	}
	return nil
}
