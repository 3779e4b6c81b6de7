package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// CheckConnectionParams contains parameters for a connectivity check
type CheckConnectionParams struct {
	// RPCURL overrides the configured endpoint when set
	RPCURL string
}

// CheckConnection verifies that the configured node answers JSON-RPC
type CheckConnection struct {
	cfg       *config.RuntimeConfig
	connector NodeConnector
	progress  ProgressSink
}

// NewCheckConnection creates a new CheckConnection use case
func NewCheckConnection(cfg *config.RuntimeConfig, connector NodeConnector, progress ProgressSink) *CheckConnection {
	return &CheckConnection{
		cfg:       cfg,
		connector: connector,
		progress:  progress,
	}
}

// Run executes the use case
func (uc *CheckConnection) Run(ctx context.Context, params CheckConnectionParams) (*domain.NodeInfo, error) {
	rpcURL := params.RPCURL
	if rpcURL == "" {
		rpcURL = uc.cfg.Network.RPCURL
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageConnecting, Message: "Connecting to " + rpcURL, Spinner: true})
	defer uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})

	node, err := uc.connector.Connect(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("connectivity check failed: %w", err)
	}
	uc.connector.Close()

	return node, nil
}
