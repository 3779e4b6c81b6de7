package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/app"
	"github.com/trebuchet-org/catapult/internal/config"
	domainconfig "github.com/trebuchet-org/catapult/internal/domain/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catapult",
		Short: "Deploy a compiled contract to an Ethereum node",
		Long: `Catapult deploys a compiled contract (ABI + creation bytecode) to an
Ethereum JSON-RPC node, waits for the receipt and records the deployment.

With no configuration it reads output/precompile.abi and output/precompile.bin
and deploys to http://127.0.0.1:8545.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, _, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			if appInstance.Config.Format != domainconfig.FormatText {
				color.NoColor = true
			}

			ctx, cancel := withCommandTimeout(context.WithValue(cmd.Context(), appKey, appInstance), appInstance.Config)
			cmd.PostRun = func(cmd *cobra.Command, args []string) {
				cancel()
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from catapult.toml [networks]")
	rootCmd.PersistentFlags().String("rpc-url", "", "Node RPC endpoint (overrides --network)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Overall command timeout (default 10m, none when --confirm-timeout is 0)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a rotating file instead of stderr")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "registry",
		Title: "Registry Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	inspectCmd := NewInspectCmd()
	inspectCmd.GroupID = "main"
	rootCmd.AddCommand(inspectCmd)

	callCmd := NewCallCmd()
	callCmd.GroupID = "main"
	rootCmd.AddCommand(callCmd)

	listCmd := NewListCmd()
	listCmd.GroupID = "registry"
	rootCmd.AddCommand(listCmd)

	showCmd := NewShowCmd()
	showCmd.GroupID = "registry"
	rootCmd.AddCommand(showCmd)

	pingCmd := NewPingCmd()
	pingCmd.GroupID = "management"
	rootCmd.AddCommand(pingCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	nodeCmd := NewNodeCmd()
	nodeCmd.GroupID = "management"
	rootCmd.AddCommand(nodeCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the command tree. Failed commands skip PostRun, so the command
// context is cancelled here on return to release its timeout.
func Execute(rootCmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

// withCommandTimeout applies the configured command timeout, if any
func withCommandTimeout(ctx context.Context, cfg *domainconfig.RuntimeConfig) (context.Context, context.CancelFunc) {
	if cfg.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// stopProgress halts a running spinner so errors and results print cleanly
func stopProgress(a *app.App) {
	if s, ok := a.Progress.(interface{ Stop() }); ok {
		s.Stop()
	}
}
