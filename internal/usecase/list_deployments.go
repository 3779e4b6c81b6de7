package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trebuchet-org/catapult/internal/domain"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	ChainID uint64
	Name    string
	Label   string
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*domain.DeploymentRecord
	ByChain     map[uint64]int
}

// ListDeployments is a use case for listing recorded deployments
type ListDeployments struct {
	repo DeploymentRepository
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(repo DeploymentRepository) *ListDeployments {
	return &ListDeployments{repo: repo}
}

// Run executes the use case. Results are ordered by chain, then newest first.
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	deployments, err := uc.repo.ListDeployments(ctx, domain.DeploymentFilter{
		ChainID: params.ChainID,
		Name:    params.Name,
		Label:   params.Label,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	sort.SliceStable(deployments, func(i, j int) bool {
		if deployments[i].ChainID != deployments[j].ChainID {
			return deployments[i].ChainID < deployments[j].ChainID
		}
		return deployments[i].DeployedAt.After(deployments[j].DeployedAt)
	})

	byChain := make(map[uint64]int)
	for _, d := range deployments {
		byChain[d.ChainID]++
	}

	return &DeploymentListResult{
		Deployments: deployments,
		ByChain:     byChain,
	}, nil
}
