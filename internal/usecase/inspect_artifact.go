package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// InspectArtifactResult summarizes a loaded artifact
type InspectArtifactResult struct {
	Artifact     *domain.Artifact
	Constructor  abi.Method
	Functions    []abi.Method
	Events       []abi.Event
	BytecodeSize int
}

// InspectArtifact loads an artifact without any network access and lists its interface
type InspectArtifact struct {
	loader ArtifactLoader
}

// NewInspectArtifact creates a new InspectArtifact use case
func NewInspectArtifact(loader ArtifactLoader) *InspectArtifact {
	return &InspectArtifact{loader: loader}
}

// Run executes the use case
func (uc *InspectArtifact) Run(ctx context.Context, ref domain.ArtifactRef) (*InspectArtifactResult, error) {
	artifact, err := uc.loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}

	result := &InspectArtifactResult{
		Artifact:     artifact,
		Constructor:  artifact.ABI.Constructor,
		BytecodeSize: len(artifact.Bytecode),
	}

	for _, m := range artifact.ABI.Methods {
		result.Functions = append(result.Functions, m)
	}
	sort.Slice(result.Functions, func(i, j int) bool {
		return result.Functions[i].Sig < result.Functions[j].Sig
	})

	for _, e := range artifact.ABI.Events {
		result.Events = append(result.Events, e)
	}
	sort.Slice(result.Events, func(i, j int) bool {
		return result.Events[i].Sig < result.Events[j].Sig
	})

	return result, nil
}
