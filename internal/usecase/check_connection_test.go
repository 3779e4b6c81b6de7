package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestCheckConnection(t *testing.T) {
	ctx := context.Background()
	cfg := &config.RuntimeConfig{Network: &domain.Network{Name: "local", RPCURL: "http://127.0.0.1:8545"}}

	t.Run("uses the configured endpoint", func(t *testing.T) {
		node := newFakeNode()
		sink := &recordingSink{}

		info, err := usecase.NewCheckConnection(cfg, node, sink).Run(ctx, usecase.CheckConnectionParams{})
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8545", info.RPCURL)
		assert.Equal(t, domain.AnvilChainID, info.ChainID)
		assert.Equal(t, []string{"Connect", "Close"}, node.Calls())
		assert.Equal(t, []usecase.ExecutionStage{usecase.StageConnecting, usecase.StageCompleted}, sink.stages())
	})

	t.Run("explicit endpoint wins", func(t *testing.T) {
		node := newFakeNode()

		info, err := usecase.NewCheckConnection(cfg, node, &recordingSink{}).Run(ctx, usecase.CheckConnectionParams{RPCURL: "http://localhost:9545"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9545", info.RPCURL)
	})

	t.Run("unreachable node", func(t *testing.T) {
		node := newFakeNode()
		node.connectErr = fmt.Errorf("%w: refused", domain.ErrNotConnected)

		_, err := usecase.NewCheckConnection(cfg, node, &recordingSink{}).Run(ctx, usecase.CheckConnectionParams{})
		assert.ErrorIs(t, err, domain.ErrNotConnected)
		assert.Contains(t, err.Error(), "connectivity check failed")
	})
}
