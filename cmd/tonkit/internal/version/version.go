package version

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tonkit/tonkit/common/version"
)

const appTitle = "tonkit"

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "version",
		Short:        "Get current version",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.BuildVersionString(appTitle))
		},
	}
}
