package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

type deployFixture struct {
	cfg      *config.RuntimeConfig
	loader   *MockArtifactLoader
	encoder  *passthroughEncoder
	node     *fakeNode
	prompter *MockPrompter
	repo     *MockDeploymentRepository
	progress *recordingSink
}

func newDeployFixture(t *testing.T) *deployFixture {
	f := &deployFixture{
		cfg: &config.RuntimeConfig{
			Network: &domain.Network{Name: "local", RPCURL: "http://127.0.0.1:8545"},
			Format:  config.FormatText,
			Sender:  domain.Sender{Type: domain.SenderTypeUnlocked},
			Deploy: config.DeployConfig{
				ConfirmTimeout: time.Second,
				PollInterval:   time.Millisecond,
			},
		},
		loader:   new(MockArtifactLoader),
		encoder:  &passthroughEncoder{},
		node:     newFakeNode(),
		prompter: new(MockPrompter),
		repo:     new(MockDeploymentRepository),
		progress: &recordingSink{},
	}
	f.loader.On("Load", mock.Anything, mock.Anything).Return(newTestArtifact(t), nil).Maybe()
	return f
}

func (f *deployFixture) useCase() *usecase.DeployContract {
	return usecase.NewDeployContract(
		f.cfg, f.loader, f.encoder,
		f.node, f.node, f.node, f.node,
		f.prompter, f.repo, f.progress,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func (f *deployFixture) run(params usecase.DeployContractParams) (*usecase.DeployContractResult, error) {
	if params.Artifact.ABIPath == "" {
		params.Artifact = domain.ArtifactRef{ABIPath: "output/precompile.abi", BinPath: "output/precompile.bin"}
	}
	return f.useCase().Run(context.Background(), params)
}

func TestDeployContract(t *testing.T) {
	t.Run("binds the handle at the receipt's contract address", func(t *testing.T) {
		f := newDeployFixture(t)
		f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)

		result, err := f.run(usecase.DeployContractParams{Label: "v1"})
		require.NoError(t, err)

		require.NotNil(t, result.Handle)
		assert.NotEqual(t, common.Address{}, result.Handle.Address)
		assert.Equal(t, result.Receipt.ContractAddress, result.Handle.Address)
		assert.Same(t, result.Plan.Artifact.ABI, result.Handle.ABI)

		assert.Equal(t, []string{
			"Connect", "ResolveSender", "EstimateDeployment", "SubmitDeployment",
			"WaitForReceipt", "CodeAt", "Bind", "Close",
		}, f.node.Calls())

		assert.Equal(t, []usecase.ExecutionStage{
			usecase.StageLoading, usecase.StageConnecting, usecase.StageSubmitting,
			usecase.StageConfirming, usecase.StageCompleted,
		}, f.progress.stages())
	})

	t.Run("records the deployment", func(t *testing.T) {
		f := newDeployFixture(t)
		var saved *domain.DeploymentRecord
		f.repo.On("SaveDeployment", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.DeploymentRecord) }).
			Return(nil)

		result, err := f.run(usecase.DeployContractParams{Label: "v1"})
		require.NoError(t, err)

		assert.True(t, result.Recorded)
		require.NotNil(t, saved)
		assert.Equal(t, domain.DeploymentID(domain.AnvilChainID, result.Handle.Address), saved.ID)
		assert.Equal(t, "precompile", saved.Name)
		assert.Equal(t, "v1", saved.Label)
		assert.Equal(t, "local", saved.Network)
		assert.Equal(t, result.Handle.Address.Hex(), saved.Address)
		assert.Equal(t, f.node.from.Hex(), saved.Deployer)
		assert.Equal(t, uint64(2), saved.BlockNumber)
		assert.Equal(t, result.Plan.Artifact.BytecodeHash().Hex(), saved.BytecodeHash)
		assert.False(t, saved.DeployedAt.IsZero())
	})

	t.Run("missing ABI halts before any network activity", func(t *testing.T) {
		f := newDeployFixture(t)
		f.loader = new(MockArtifactLoader)
		f.loader.On("Load", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: ABI file output/precompile.abi does not exist", domain.ErrArtifactNotFound))

		_, err := f.run(usecase.DeployContractParams{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
		assert.Empty(t, f.node.Calls())
		f.repo.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("bad constructor arguments halt before any network activity", func(t *testing.T) {
		f := newDeployFixture(t)
		f.encoder.err = fmt.Errorf("%w: expected 0 argument(s), got 1", domain.ErrInvalidArgument)

		_, err := f.run(usecase.DeployContractParams{ConstructorArgs: []string{"1"}})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Empty(t, f.node.Calls())
	})

	t.Run("unreachable node halts before deploying", func(t *testing.T) {
		f := newDeployFixture(t)
		f.node.connectErr = fmt.Errorf("%w: http://127.0.0.1:8545: connection refused", domain.ErrNotConnected)

		_, err := f.run(usecase.DeployContractParams{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotConnected)
		assert.Contains(t, err.Error(), "connectivity check failed")
		assert.Equal(t, []string{"Connect"}, f.node.Calls())
	})

	t.Run("reverted deployment", func(t *testing.T) {
		f := newDeployFixture(t)
		f.node.receipt.Status = domain.ReceiptStatusFailed

		_, err := f.run(usecase.DeployContractParams{})
		assert.ErrorIs(t, err, domain.ErrDeploymentReverted)
		assert.NotContains(t, f.node.Calls(), "Bind")
		f.repo.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("receipt wait times out", func(t *testing.T) {
		f := newDeployFixture(t)
		f.node.receipt = nil
		f.cfg.Deploy.ConfirmTimeout = 20 * time.Millisecond

		_, err := f.run(usecase.DeployContractParams{})
		assert.ErrorIs(t, err, domain.ErrConfirmationTimeout)
		assert.NotContains(t, f.node.Calls(), "Bind")
	})

	t.Run("receipt wait failure", func(t *testing.T) {
		f := newDeployFixture(t)
		f.node.waitErr = errors.New("boom")

		_, err := f.run(usecase.DeployContractParams{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrConfirmationTimeout)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("receipt address differs from the predicted one", func(t *testing.T) {
		f := newDeployFixture(t)
		f.node.submission.PredictedAddress = common.HexToAddress("0x01")

		_, err := f.run(usecase.DeployContractParams{})
		assert.ErrorIs(t, err, domain.ErrAddressMismatch)
	})

	t.Run("receipt without contract address", func(t *testing.T) {
		f := newDeployFixture(t)
		f.node.submission.PredictedAddress = common.Address{}
		f.node.receipt.ContractAddress = common.Address{}

		_, err := f.run(usecase.DeployContractParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no contract address")
		assert.NotContains(t, f.node.Calls(), "Bind")
	})

	t.Run("no code at the contract address", func(t *testing.T) {
		f := newDeployFixture(t)
		f.node.code = nil

		_, err := f.run(usecase.DeployContractParams{})
		assert.ErrorIs(t, err, domain.ErrNoCode)
	})

	t.Run("dry run stops after estimation", func(t *testing.T) {
		f := newDeployFixture(t)

		result, err := f.run(usecase.DeployContractParams{DryRun: true})
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, uint64(60000), result.Plan.EstimatedGas)
		assert.Nil(t, result.Handle)
		assert.NotContains(t, f.node.Calls(), "SubmitDeployment")
	})

	t.Run("non-development chain asks for confirmation", func(t *testing.T) {
		f := newDeployFixture(t)
		f.node.info.ChainID = 11155111
		f.prompter.On("ConfirmDeployment", mock.Anything, mock.Anything).Return(false, nil)

		_, err := f.run(usecase.DeployContractParams{})
		assert.ErrorIs(t, err, domain.ErrDeploymentAborted)
		assert.NotContains(t, f.node.Calls(), "SubmitDeployment")
		f.prompter.AssertExpectations(t)
	})

	t.Run("confirmation can be skipped", func(t *testing.T) {
		f := newDeployFixture(t)
		f.node.info.ChainID = 11155111
		f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)

		_, err := f.run(usecase.DeployContractParams{SkipConfirm: true})
		require.NoError(t, err)
		f.prompter.AssertNotCalled(t, "ConfirmDeployment", mock.Anything, mock.Anything)
	})

	t.Run("development chain deploys without asking", func(t *testing.T) {
		f := newDeployFixture(t)
		f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(nil)

		_, err := f.run(usecase.DeployContractParams{})
		require.NoError(t, err)
		f.prompter.AssertNotCalled(t, "ConfirmDeployment", mock.Anything, mock.Anything)
	})

	t.Run("failing to record keeps the deployment result", func(t *testing.T) {
		f := newDeployFixture(t)
		f.repo.On("SaveDeployment", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		result, err := f.run(usecase.DeployContractParams{})
		require.NoError(t, err)
		assert.False(t, result.Recorded)
		assert.NotNil(t, result.Handle)
		require.Len(t, f.progress.errors, 1)
		assert.Contains(t, f.progress.errors[0], "disk full")
	})

	t.Run("no record", func(t *testing.T) {
		f := newDeployFixture(t)

		result, err := f.run(usecase.DeployContractParams{NoRecord: true})
		require.NoError(t, err)
		assert.False(t, result.Recorded)
		assert.NotNil(t, result.Record)
		f.repo.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("calldata is bytecode followed by packed arguments", func(t *testing.T) {
		f := newDeployFixture(t)

		result, err := f.run(usecase.DeployContractParams{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, result.Plan.Artifact.Bytecode, result.Plan.Calldata)
		assert.Equal(t, f.node.from, result.Plan.From)
		assert.Equal(t, domain.AnvilChainID, result.Plan.ChainID)
	})
}

func TestDefaultArtifactRef(t *testing.T) {
	cfg := &config.RuntimeConfig{Artifacts: config.ArtifactsConfig{ABI: "a.abi", Bin: "a.bin", Artifact: "a.json"}}
	assert.Equal(t, domain.ArtifactRef{ABIPath: "a.abi", BinPath: "a.bin", ArtifactPath: "a.json"}, usecase.DefaultArtifactRef(cfg))
}
