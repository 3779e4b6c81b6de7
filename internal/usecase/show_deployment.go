package usecase

import (
	"context"

	"github.com/trebuchet-org/catapult/internal/domain"
)

// ShowDeploymentParams contains parameters for showing a deployment
type ShowDeploymentParams struct {
	Reference string
	ChainID   uint64
}

// ShowDeployment is a use case for showing a single recorded deployment
type ShowDeployment struct {
	resolver *ResolveDeployment
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(resolver *ResolveDeployment) *ShowDeployment {
	return &ShowDeployment{resolver: resolver}
}

// Run executes the use case
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*domain.DeploymentRecord, error) {
	return uc.resolver.Resolve(ctx, params.Reference, params.ChainID)
}
