package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var chainID uint64

	cmd := &cobra.Command{
		Use:   "show <deployment>",
		Short: "Show a recorded deployment",
		Long: `Show detailed information about a recorded deployment.

You can specify deployments using:
- Contract name: "precompile"
- Contract with label: "precompile:v2"
- Full deployment ID: "31337/0x5FbDB2315678afecb367f032d93F642f64180aa3"
- Contract address: "0x5FbD..."

Examples:
  catapult show precompile
  catapult show precompile:v2 --chain 31337
  catapult show 0x5FbDB2315678afecb367f032d93F642f64180aa3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowDeploymentParams{
				Reference: args[0],
				ChainID:   chainID,
			}

			record, err := app.ShowDeployment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentRenderer(cmd.OutOrStdout(), app.Config.Format)
			return renderer.Render(record)
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain", 0, "Only match deployments on this chain ID")

	return cmd
}
