package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewPingCmd creates the ping command
func NewPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the node answers JSON-RPC",
		Long: `Connect to the configured node and report its chain ID, latest block and
client version.

Examples:
  catapult ping
  catapult ping --network sepolia
  catapult ping --rpc-url http://localhost:9545`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			info, err := app.CheckConnection.Run(cmd.Context(), usecase.CheckConnectionParams{})
			if err != nil {
				return err
			}
			stopProgress(app)

			renderer := render.NewNodeRenderer(cmd.OutOrStdout(), app.Config.Format)
			return renderer.RenderNodeInfo(info)
		},
	}
}
