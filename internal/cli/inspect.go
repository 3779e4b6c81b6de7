package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the interface and bytecode size of the compiled contract",
		Long: `Load the configured artifact without contacting any node and list its
constructor, functions and events.

Examples:
  catapult inspect
  catapult inspect --artifact out/Token.sol/Token.json --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InspectArtifact.Run(cmd.Context(), usecase.DefaultArtifactRef(app.Config))
			if err != nil {
				return err
			}

			renderer := render.NewInspectRenderer(cmd.OutOrStdout(), app.Config.Format)
			return renderer.Render(result)
		},
	}

	addArtifactFlags(cmd)

	return cmd
}
