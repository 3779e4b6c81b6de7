package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// ArtifactLoader reads compiled contract artifacts from disk
type ArtifactLoader interface {
	Load(ctx context.Context, ref domain.ArtifactRef) (*domain.Artifact, error)
	LoadABI(ctx context.Context, path string) (*abi.ABI, error)
}

// ArgumentEncoder converts command-line strings into ABI-typed values
type ArgumentEncoder interface {
	EncodeArguments(args abi.Arguments, raw []string) ([]any, error)
}

// NodeConnector opens the connection to a node and verifies it answers
type NodeConnector interface {
	Connect(ctx context.Context, rpcURL string) (*domain.NodeInfo, error)
	Close()
}

// ContractDeployer submits contract creation transactions
type ContractDeployer interface {
	ResolveSender(ctx context.Context, sender domain.Sender) (common.Address, error)
	EstimateDeployment(ctx context.Context, plan *domain.DeploymentPlan) (uint64, error)
	SubmitDeployment(ctx context.Context, plan *domain.DeploymentPlan) (*domain.Submission, error)
}

// ReceiptWaiter blocks until a transaction receipt is available
type ReceiptWaiter interface {
	WaitForReceipt(ctx context.Context, txHash common.Hash, pollInterval time.Duration) (*domain.Receipt, error)
}

// ContractBinder builds handles for deployed contracts and talks to them
type ContractBinder interface {
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	Bind(address common.Address, contractABI *abi.ABI) (*domain.ContractHandle, error)
	Call(ctx context.Context, handle *domain.ContractHandle, method string, args ...any) ([]any, error)
}

// DeploymentRepository handles persistence of deployment records
type DeploymentRepository interface {
	SaveDeployment(ctx context.Context, record *domain.DeploymentRecord) error
	GetDeployment(ctx context.Context, id string) (*domain.DeploymentRecord, error)
	GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*domain.DeploymentRecord, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*domain.DeploymentRecord, error)
}

// DeploymentConfirmer asks the user to approve an irreversible deployment
type DeploymentConfirmer interface {
	ConfirmDeployment(ctx context.Context, plan *domain.DeploymentPlan) (bool, error)
}

// DeploymentSelector handles interactive selection of deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, deployments []*domain.DeploymentRecord, prompt string) (*domain.DeploymentRecord, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*domain.Network, error)
}

// AnvilManager manages local anvil node instances
type AnvilManager interface {
	Start(ctx context.Context, instance *domain.AnvilInstance) error
	Stop(ctx context.Context, instance *domain.AnvilInstance) error
	GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error)
}

// Progress tracking interfaces

// ExecutionStage names a step of a long-running command
type ExecutionStage string

const (
	StageLoading    ExecutionStage = "loading"
	StageConnecting ExecutionStage = "connecting"
	StageSubmitting ExecutionStage = "submitting"
	StageConfirming ExecutionStage = "confirming"
	StageCompleted  ExecutionStage = "completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ExecutionStage
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}
