package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List configured networks",
		Long: `List the networks configured in the [networks] section of catapult.toml.
With --probe each endpoint is contacted to report its chain ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Probe: probe})
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), app.Config.Format, probe)
			return renderer.Render(result)
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Connect to each network and report its chain ID")

	return cmd
}
