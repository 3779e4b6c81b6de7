package config

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// NetworkResolver resolves network names from the [networks] section of catapult.toml
type NetworkResolver struct {
	networks map[string]string
}

// NewNetworkResolver creates a NetworkResolver for Wire dependency injection
func NewNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return &NetworkResolver{networks: cfg.Networks}
}

// GetNetworks returns the configured network names in sorted order
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	names := lo.Keys(r.networks)
	sort.Strings(names)
	return names
}

// ResolveNetwork returns the endpoint of a named network
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, name string) (*domain.Network, error) {
	return ResolveNetwork(name, "", r.networks)
}
