package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var name string
	var label string

	cmd := &cobra.Command{
		Use:   "deploy [constructor-args...]",
		Short: "Deploy the compiled contract and wait for its receipt",
		Long: `Deploy a compiled contract to the configured node.

The ABI and creation bytecode are read first; a missing or malformed file stops
the command before the node is contacted. The node must answer before anything
is submitted. After the receipt arrives the contract address is checked for code
and the deployment is recorded in .catapult/deployments.json.

Constructor arguments are given positionally in ABI order. Arrays are written as
[a,b,c]; integers accept decimal or 0x-prefixed hex.

Examples:
  catapult deploy
  catapult deploy --abi out/Token.abi --bin out/Token.bin "My Token" MTK 1000000
  catapult deploy --artifact out/Token.sol/Token.json --label v2
  catapult deploy --network sepolia --sender private_key --yes
  catapult deploy --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(app)

			ref := usecase.DefaultArtifactRef(app.Config)
			ref.Name = name

			params := usecase.DeployContractParams{
				Artifact:        ref,
				ConstructorArgs: args,
				Label:           label,
				DryRun:          app.Config.DryRun,
				SkipConfirm:     app.Config.Yes || !app.Config.Interactive(),
				NoRecord:        app.Config.NoRecord,
			}

			result, err := app.DeployContract.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			stopProgress(app)

			renderer := render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.Format)
			return renderer.Render(result)
		},
	}

	addArtifactFlags(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Contract name to record (defaults to the artifact file name)")
	cmd.Flags().StringVar(&label, "label", "", "Label to tell deployments of the same contract apart")
	cmd.Flags().String("sender", "", "Sender type: unlocked or private_key")
	cmd.Flags().String("sender-address", "", "Unlocked account to deploy from (defaults to the node's first account)")
	cmd.Flags().String("private-key", "", "Hex private key for the private_key sender (prefer CATAPULT_PRIVATE_KEY)")
	cmd.Flags().String("confirm-timeout", "", "How long to wait for the receipt, 0 waits forever (default 2m)")
	cmd.Flags().String("poll-interval", "", "Receipt polling interval (default 1s)")
	cmd.Flags().Uint64("gas-limit", 0, "Gas limit for the creation transaction (estimated when 0)")
	cmd.Flags().Bool("dry-run", false, "Estimate and print the deployment without submitting it")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt on non-development chains")
	cmd.Flags().Bool("no-record", false, "Do not record the deployment in the registry")

	return cmd
}

// addArtifactFlags registers the flags that locate the compiled contract
func addArtifactFlags(cmd *cobra.Command) {
	cmd.Flags().String("abi", "", "Path to the ABI file (default output/precompile.abi)")
	cmd.Flags().String("bin", "", "Path to the hex bytecode file (default output/precompile.bin)")
	cmd.Flags().String("artifact", "", "Path to a forge or hardhat JSON artifact (takes precedence over --abi/--bin)")
}
