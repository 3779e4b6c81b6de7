package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/adapters/anvil"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewNodeCmd creates the node command group
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage a local anvil node",
		Long: `Start, stop and inspect a local anvil development node so the default
endpoint http://127.0.0.1:8545 is reachable. Requires anvil from Foundry on PATH.`,
	}

	cmd.AddCommand(newNodeOpCmd(usecase.NodeStart, "Start a local anvil node"))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeStop, "Stop a local anvil node"))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeRestart, "Restart a local anvil node"))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeStatus, "Show the status of a local anvil node"))

	return cmd
}

func newNodeOpCmd(operation, short string) *cobra.Command {
	var name string
	var port string
	var chainID string

	cmd := &cobra.Command{
		Use:   operation,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			params := usecase.ManageNodeParams{
				Operation: operation,
				Name:      name,
				Port:      port,
				ChainID:   chainID,
			}

			result, err := app.ManageNode.Execute(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewNodeRenderer(cmd.OutOrStdout(), app.Config.Format)
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&name, "name", anvil.DefaultAnvilName, "Instance name")
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (default 8545)")
	if operation == usecase.NodeStart || operation == usecase.NodeRestart {
		cmd.Flags().StringVar(&chainID, "chain-id", "", "Chain ID for the node (anvil default 31337)")
	}

	return cmd
}
