package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestInspectArtifact(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the interface in signature order", func(t *testing.T) {
		loader := new(MockArtifactLoader)
		loader.On("Load", ctx, mock.Anything).Return(newTestArtifact(t), nil)

		result, err := usecase.NewInspectArtifact(loader).Run(ctx, domain.ArtifactRef{ABIPath: "output/precompile.abi"})
		require.NoError(t, err)

		require.Len(t, result.Functions, 2)
		assert.Equal(t, "answer()", result.Functions[0].Sig)
		assert.Equal(t, "set(uint256)", result.Functions[1].Sig)
		assert.Empty(t, result.Events)
		assert.Equal(t, 22, result.BytecodeSize)
		assert.Empty(t, result.Constructor.Inputs)
	})

	t.Run("load failure", func(t *testing.T) {
		loader := new(MockArtifactLoader)
		loader.On("Load", ctx, mock.Anything).Return(nil, domain.ErrArtifactNotFound)

		_, err := usecase.NewInspectArtifact(loader).Run(ctx, domain.ArtifactRef{})
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})
}
