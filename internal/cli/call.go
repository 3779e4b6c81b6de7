package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	var abiPath string

	cmd := &cobra.Command{
		Use:   "call <deployment|address> <method> [args...]",
		Short: "Call a read-only method on a deployed contract",
		Long: `Bind a handle to a deployed contract and perform an eth_call.

The deployment is resolved on the connected chain the same way as in 'show'.
The ABI recorded with the deployment is used unless --abi is given. Calling a
state-changing method only simulates it.

Examples:
  catapult call precompile answer
  catapult call 0x5FbDB2315678afecb367f032d93F642f64180aa3 balanceOf 0xf39F... --abi out/Token.abi`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			params := usecase.CallContractParams{
				Reference: args[0],
				Method:    args[1],
				Args:      args[2:],
				ABIPath:   abiPath,
			}

			result, err := app.CallContract.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewCallRenderer(cmd.OutOrStdout(), app.Config.Format)
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "ABI file to decode with (defaults to the recorded ABI)")

	return cmd
}
