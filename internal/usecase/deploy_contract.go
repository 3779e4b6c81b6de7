package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// DeployContractParams contains parameters for a deployment
type DeployContractParams struct {
	Artifact        domain.ArtifactRef
	ConstructorArgs []string
	Label           string
	DryRun          bool
	SkipConfirm     bool
	NoRecord        bool
}

// DeployContractResult contains the result of a deployment
type DeployContractResult struct {
	Node       *domain.NodeInfo
	Plan       *domain.DeploymentPlan
	Submission *domain.Submission
	Receipt    *domain.Receipt
	Handle     *domain.ContractHandle
	Record     *domain.DeploymentRecord
	Recorded   bool
	DryRun     bool
}

// DeployContract loads an artifact, verifies the node is reachable, submits the
// creation transaction, waits for its receipt and binds a handle to the new address
type DeployContract struct {
	cfg       *config.RuntimeConfig
	loader    ArtifactLoader
	encoder   ArgumentEncoder
	connector NodeConnector
	deployer  ContractDeployer
	waiter    ReceiptWaiter
	binder    ContractBinder
	confirmer DeploymentConfirmer
	repo      DeploymentRepository
	progress  ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	loader ArtifactLoader,
	encoder ArgumentEncoder,
	connector NodeConnector,
	deployer ContractDeployer,
	waiter ReceiptWaiter,
	binder ContractBinder,
	confirmer DeploymentConfirmer,
	repo DeploymentRepository,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		cfg:       cfg,
		loader:    loader,
		encoder:   encoder,
		connector: connector,
		deployer:  deployer,
		waiter:    waiter,
		binder:    binder,
		confirmer: confirmer,
		repo:      repo,
		progress:  progress,
		log:       log,
		now:       time.Now,
	}
}

// DefaultArtifactRef builds the artifact reference from configuration
func DefaultArtifactRef(cfg *config.RuntimeConfig) domain.ArtifactRef {
	return domain.ArtifactRef{
		ABIPath:      cfg.Artifacts.ABI,
		BinPath:      cfg.Artifacts.Bin,
		ArtifactPath: cfg.Artifacts.Artifact,
	}
}

// Run executes the deployment
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageLoading, Message: "Loading artifact", Spinner: true})

	artifact, err := uc.loader.Load(ctx, params.Artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}

	args, err := uc.encoder.EncodeArguments(artifact.ABI.Constructor.Inputs, params.ConstructorArgs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	packed, err := artifact.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to pack constructor arguments: %v", domain.ErrInvalidArgument, err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageConnecting, Message: "Connecting to " + uc.cfg.Network.RPCURL, Spinner: true})

	node, err := uc.connector.Connect(ctx, uc.cfg.Network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connectivity check failed: %w", err)
	}
	defer uc.connector.Close()
	uc.log.Debug("connected", "rpc", node.RPCURL, "chainId", node.ChainID, "client", node.ClientVersion)

	from, err := uc.deployer.ResolveSender(ctx, uc.cfg.Sender)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender: %w", err)
	}

	calldata := make([]byte, 0, len(artifact.Bytecode)+len(packed))
	calldata = append(calldata, artifact.Bytecode...)
	calldata = append(calldata, packed...)

	plan := &domain.DeploymentPlan{
		Artifact: artifact,
		Args:     args,
		RawArgs:  params.ConstructorArgs,
		Calldata: calldata,
		Sender:   uc.cfg.Sender,
		From:     from,
		ChainID:  node.ChainID,
		Network:  uc.cfg.Network.Name,
		GasLimit: uc.cfg.Deploy.GasLimit,
	}

	gas, err := uc.deployer.EstimateDeployment(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("gas estimation failed: %w", err)
	}
	plan.EstimatedGas = gas

	result := &DeployContractResult{Node: node, Plan: plan}
	if params.DryRun {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Dry run complete"})
		result.DryRun = true
		return result, nil
	}

	if !node.IsLocalDevChain() && !params.SkipConfirm {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting, Message: "Awaiting confirmation"})
		ok, err := uc.confirmer.ConfirmDeployment(ctx, plan)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm deployment: %w", err)
		}
		if !ok {
			return nil, domain.ErrDeploymentAborted
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting, Message: "Submitting deployment transaction", Spinner: true})

	submission, err := uc.deployer.SubmitDeployment(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to submit deployment: %w", err)
	}
	result.Submission = submission
	uc.log.Info("deployment submitted", "tx", submission.TxHash.Hex(), "from", submission.From.Hex(), "nonce", submission.Nonce)

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageConfirming, Message: "Waiting for receipt " + submission.TxHash.Hex(), Spinner: true})

	receipt, err := uc.waitForReceipt(ctx, submission.TxHash)
	if err != nil {
		return nil, err
	}
	result.Receipt = receipt

	if err := uc.checkReceipt(ctx, submission, receipt); err != nil {
		return nil, err
	}

	handle, err := uc.binder.Bind(receipt.ContractAddress, artifact.ABI)
	if err != nil {
		return nil, fmt.Errorf("failed to bind contract handle: %w", err)
	}
	result.Handle = handle

	result.Record = uc.buildRecord(plan, submission, receipt, params.Label)
	if !params.NoRecord {
		if err := uc.repo.SaveDeployment(ctx, result.Record); err != nil {
			// The contract is live; losing the record must not hide that
			uc.progress.Error(fmt.Sprintf("Failed to record deployment: %v", err))
			uc.log.Warn("failed to record deployment", "id", result.Record.ID, "error", err)
		} else {
			result.Recorded = true
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Deployed at " + handle.Address.Hex()})
	return result, nil
}

func (uc *DeployContract) waitForReceipt(ctx context.Context, txHash common.Hash) (*domain.Receipt, error) {
	waitCtx := ctx
	if timeout := uc.cfg.Deploy.ConfirmTimeout; timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	receipt, err := uc.waiter.WaitForReceipt(waitCtx, txHash, uc.cfg.Deploy.PollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: transaction %s", domain.ErrConfirmationTimeout, txHash.Hex())
		}
		return nil, fmt.Errorf("failed waiting for receipt of %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

// checkReceipt enforces that the receipt describes a live contract at the expected address
func (uc *DeployContract) checkReceipt(ctx context.Context, submission *domain.Submission, receipt *domain.Receipt) error {
	if !receipt.Succeeded() {
		return fmt.Errorf("%w: transaction %s in block %d", domain.ErrDeploymentReverted, receipt.TxHash.Hex(), receipt.BlockNumber)
	}

	if receipt.ContractAddress == (common.Address{}) {
		return fmt.Errorf("receipt for %s carries no contract address", receipt.TxHash.Hex())
	}

	if predicted := submission.PredictedAddress; predicted != (common.Address{}) && predicted != receipt.ContractAddress {
		return fmt.Errorf("%w: predicted %s, receipt reports %s", domain.ErrAddressMismatch, predicted.Hex(), receipt.ContractAddress.Hex())
	}

	code, err := uc.binder.CodeAt(ctx, receipt.ContractAddress)
	if err != nil {
		return fmt.Errorf("failed to read code at %s: %w", receipt.ContractAddress.Hex(), err)
	}
	if len(code) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNoCode, receipt.ContractAddress.Hex())
	}

	return nil
}

func (uc *DeployContract) buildRecord(plan *domain.DeploymentPlan, submission *domain.Submission, receipt *domain.Receipt, label string) *domain.DeploymentRecord {
	return &domain.DeploymentRecord{
		ID:           domain.DeploymentID(plan.ChainID, receipt.ContractAddress),
		Name:         artifactName(plan.Artifact),
		Label:        label,
		ChainID:      plan.ChainID,
		Network:      plan.Network,
		Address:      receipt.ContractAddress.Hex(),
		TxHash:       receipt.TxHash.Hex(),
		BlockNumber:  receipt.BlockNumber,
		GasUsed:      receipt.GasUsed,
		Deployer:     submission.From.Hex(),
		ABIPath:      plan.Artifact.ABIPath,
		BinPath:      plan.Artifact.BinPath,
		BytecodeHash: plan.Artifact.BytecodeHash().Hex(),
		DeployedAt:   uc.now().UTC(),
	}
}

func artifactName(artifact *domain.Artifact) string {
	if artifact.Name != "" {
		return artifact.Name
	}
	base := filepath.Base(artifact.ABIPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
