package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestCallContract(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, records []*domain.DeploymentRecord) (*usecase.CallContract, *fakeNode, *MockArtifactLoader) {
		cfg := &config.RuntimeConfig{
			Network:   &domain.Network{Name: "local", RPCURL: "http://127.0.0.1:8545"},
			Format:    config.FormatText,
			Artifacts: config.ArtifactsConfig{ABI: "output/precompile.abi"},
		}
		repo := new(MockDeploymentRepository)
		repo.On("ListDeployments", mock.Anything, mock.Anything).Return(records, nil)
		repo.On("GetDeploymentByAddress", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound).Maybe()
		resolver := usecase.NewResolveDeployment(cfg, repo, new(MockPrompter))

		node := newFakeNode()
		node.outputs = []any{big.NewInt(42)}
		loader := new(MockArtifactLoader)

		return usecase.NewCallContract(cfg, resolver, loader, &passthroughEncoder{}, node, node), node, loader
	}

	record := &domain.DeploymentRecord{
		ID:      "31337/0x5FbDB2315678afecb367f032d93F642f64180aa3",
		Name:    "precompile",
		ChainID: 31337,
		Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		ABIPath: "/project/output/precompile.abi",
	}

	t.Run("calls through a recorded deployment", func(t *testing.T) {
		uc, node, loader := setup(t, []*domain.DeploymentRecord{record})
		loader.On("LoadABI", mock.Anything, record.ABIPath).Return(parseTestABI(t), nil)

		result, err := uc.Run(ctx, usecase.CallContractParams{Reference: "precompile", Method: "answer"})
		require.NoError(t, err)

		assert.Equal(t, record, result.Record)
		assert.Equal(t, common.HexToAddress(record.Address), result.Address)
		assert.Equal(t, "answer()", result.Method.Sig)
		assert.False(t, result.Simulated)
		assert.Equal(t, []any{big.NewInt(42)}, result.Outputs)
		assert.Equal(t, []string{"Connect", "Bind", "Call:answer", "Close"}, node.Calls())
	})

	t.Run("explicit ABI wins over the recorded one", func(t *testing.T) {
		uc, _, loader := setup(t, []*domain.DeploymentRecord{record})
		loader.On("LoadABI", mock.Anything, "other.abi").Return(parseTestABI(t), nil)

		_, err := uc.Run(ctx, usecase.CallContractParams{Reference: "precompile", Method: "answer", ABIPath: "other.abi"})
		require.NoError(t, err)
		loader.AssertExpectations(t)
	})

	t.Run("bare unrecorded address uses the configured ABI", func(t *testing.T) {
		uc, _, loader := setup(t, nil)
		loader.On("LoadABI", mock.Anything, "output/precompile.abi").Return(parseTestABI(t), nil)

		result, err := uc.Run(ctx, usecase.CallContractParams{Reference: "0x00000000000000000000000000000000000000aa", Method: "answer"})
		require.NoError(t, err)
		assert.Nil(t, result.Record)
		assert.Equal(t, common.HexToAddress("0xaa"), result.Address)
	})

	t.Run("state-changing methods are only simulated", func(t *testing.T) {
		uc, _, loader := setup(t, []*domain.DeploymentRecord{record})
		loader.On("LoadABI", mock.Anything, mock.Anything).Return(parseTestABI(t), nil)

		result, err := uc.Run(ctx, usecase.CallContractParams{Reference: "precompile", Method: "set", Args: []string{"1"}})
		require.NoError(t, err)
		assert.True(t, result.Simulated)
	})

	t.Run("unknown method lists the available ones", func(t *testing.T) {
		uc, node, loader := setup(t, []*domain.DeploymentRecord{record})
		loader.On("LoadABI", mock.Anything, mock.Anything).Return(parseTestABI(t), nil)

		_, err := uc.Run(ctx, usecase.CallContractParams{Reference: "precompile", Method: "nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "answer, set")
		assert.NotContains(t, node.Calls(), "Bind")
	})

	t.Run("unknown name", func(t *testing.T) {
		uc, _, _ := setup(t, []*domain.DeploymentRecord{record})

		_, err := uc.Run(ctx, usecase.CallContractParams{Reference: "Nope", Method: "answer"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("call failure", func(t *testing.T) {
		uc, node, loader := setup(t, []*domain.DeploymentRecord{record})
		node.callErr = errors.New("execution reverted")
		loader.On("LoadABI", mock.Anything, mock.Anything).Return(parseTestABI(t), nil)

		_, err := uc.Run(ctx, usecase.CallContractParams{Reference: "precompile", Method: "answer"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "call to answer() failed")
	})

	t.Run("unreachable node", func(t *testing.T) {
		uc, node, _ := setup(t, []*domain.DeploymentRecord{record})
		node.connectErr = fmt.Errorf("%w: refused", domain.ErrNotConnected)

		_, err := uc.Run(ctx, usecase.CallContractParams{Reference: "precompile", Method: "answer"})
		assert.ErrorIs(t, err, domain.ErrNotConnected)
	})
}
