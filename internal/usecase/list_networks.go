package usecase

import (
	"context"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Probe connects to every network to report its chain ID
	Probe bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name    string
	RPCURL  string
	ChainID uint64
	Error   error
}

// ListNetworks is a use case for listing configured networks
type ListNetworks struct {
	resolver  NetworkResolver
	connector NodeConnector
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, connector NodeConnector) *ListNetworks {
	return &ListNetworks{
		resolver:  resolver,
		connector: connector,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{Name: name}

		network, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.RPCURL = network.RPCURL

		if params.Probe {
			info, err := uc.connector.Connect(ctx, network.RPCURL)
			if err != nil {
				status.Error = err
			} else {
				status.ChainID = info.ChainID
				uc.connector.Close()
			}
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}
