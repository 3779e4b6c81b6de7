//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/adapters"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/logging"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewCheckConnection,
		usecase.NewInspectArtifact,
		usecase.NewListDeployments,
		usecase.NewResolveDeployment,
		usecase.NewShowDeployment,
		usecase.NewCallContract,
		usecase.NewListNetworks,
		usecase.NewManageNode,

		// App
		NewApp,
	)
	return nil, nil
}
