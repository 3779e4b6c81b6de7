package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/catapult/internal/adapters/anvil"
	"github.com/trebuchet-org/catapult/internal/adapters/artifact"
	"github.com/trebuchet-org/catapult/internal/adapters/blockchain"
	"github.com/trebuchet-org/catapult/internal/adapters/encoding"
	"github.com/trebuchet-org/catapult/internal/adapters/interactive"
	"github.com/trebuchet-org/catapult/internal/adapters/progress"
	"github.com/trebuchet-org/catapult/internal/adapters/repository/deployments"
	internalconfig "github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// ProvideProgressSink shows a spinner for interactive text output and stays silent otherwise
func ProvideProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.Interactive() {
		return progress.NewSpinnerProgressReporter()
	}
	return progress.NewNopSink()
}

// ArtifactSet provides artifact loading and argument encoding
var ArtifactSet = wire.NewSet(
	artifact.NewLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifact.Loader)),

	encoding.NewArgumentEncoder,
	wire.Bind(new(usecase.ArgumentEncoder), new(*encoding.ArgumentEncoder)),
)

// BlockchainSet provides the JSON-RPC node client for every node-facing port
var BlockchainSet = wire.NewSet(
	blockchain.NewNodeClient,
	wire.Bind(new(usecase.NodeConnector), new(*blockchain.NodeClient)),
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.NodeClient)),
	wire.Bind(new(usecase.ReceiptWaiter), new(*blockchain.NodeClient)),
	wire.Bind(new(usecase.ContractBinder), new(*blockchain.NodeClient)),
)

// RepositorySet provides file-based persistence
var RepositorySet = wire.NewSet(
	deployments.NewFileRepository,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.DeploymentConfirmer), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.NewNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolver)),
)

// AnvilSet provides local node management
var AnvilSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.AnvilManager), new(*anvil.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProvideProgressSink,

	ArtifactSet,
	BlockchainSet,
	RepositorySet,
	InteractiveSet,
	ConfigSet,
	AnvilSet,
)
