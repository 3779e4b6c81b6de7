package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var chainID uint64
	var name string
	var label string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List deployments recorded in .catapult/deployments.json, grouped by chain.

Examples:
  catapult list
  catapult list --chain 31337
  catapult list --name precompile --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListDeploymentsParams{
				ChainID: chainID,
				Name:    name,
				Label:   label,
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout(), app.Config.Format)
			return renderer.Render(result)
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain", 0, "Only show deployments on this chain ID")
	cmd.Flags().StringVar(&name, "name", "", "Only show deployments of this contract")
	cmd.Flags().StringVar(&label, "label", "", "Only show deployments with this label")

	return cmd
}
