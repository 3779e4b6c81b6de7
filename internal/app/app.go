package app

import (
	"log/slog"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Progress usecase.ProgressSink

	// Use cases
	DeployContract  *usecase.DeployContract
	CheckConnection *usecase.CheckConnection
	InspectArtifact *usecase.InspectArtifact
	ListDeployments *usecase.ListDeployments
	ShowDeployment  *usecase.ShowDeployment
	CallContract    *usecase.CallContract
	ListNetworks    *usecase.ListNetworks
	ManageNode      *usecase.ManageNode
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	progress usecase.ProgressSink,
	deployContract *usecase.DeployContract,
	checkConnection *usecase.CheckConnection,
	inspectArtifact *usecase.InspectArtifact,
	listDeployments *usecase.ListDeployments,
	showDeployment *usecase.ShowDeployment,
	callContract *usecase.CallContract,
	listNetworks *usecase.ListNetworks,
	manageNode *usecase.ManageNode,
) (*App, error) {
	return &App{
		Config:          cfg,
		Log:             log,
		Progress:        progress,
		DeployContract:  deployContract,
		CheckConnection: checkConnection,
		InspectArtifact: inspectArtifact,
		ListDeployments: listDeployments,
		ShowDeployment:  showDeployment,
		CallContract:    callContract,
		ListNetworks:    listNetworks,
		ManageNode:      manageNode,
	}, nil
}
