package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// Node operations
const (
	NodeStart   = "start"
	NodeStop    = "stop"
	NodeRestart = "restart"
	NodeStatus  = "status"
)

// ManageNodeParams contains parameters for node operations
type ManageNodeParams struct {
	Operation string
	Name      string
	Port      string
	ChainID   string
}

// ManageNodeResult contains the result of node operations
type ManageNodeResult struct {
	Operation string
	Instance  *domain.AnvilInstance
	Status    *domain.AnvilStatus
	Message   string
}

// ManageNode starts, stops and reports on the local anvil dev node
type ManageNode struct {
	cfg          *config.RuntimeConfig
	anvilManager AnvilManager
	progress     ProgressSink
}

// NewManageNode creates a new node management use case
func NewManageNode(cfg *config.RuntimeConfig, anvilManager AnvilManager, progress ProgressSink) *ManageNode {
	return &ManageNode{
		cfg:          cfg,
		anvilManager: anvilManager,
		progress:     progress,
	}
}

// Execute performs the node operation
func (m *ManageNode) Execute(ctx context.Context, params ManageNodeParams) (*ManageNodeResult, error) {
	instance := &domain.AnvilInstance{
		Name:    params.Name,
		Port:    params.Port,
		ChainID: params.ChainID,
	}
	if instance.Port == "" {
		instance.Port = m.cfg.Node.Port
	}
	if instance.ChainID == "" {
		instance.ChainID = m.cfg.Node.ChainID
	}

	switch params.Operation {
	case NodeStart:
		return m.start(ctx, instance)
	case NodeStop:
		return m.stop(ctx, instance)
	case NodeRestart:
		if _, err := m.stop(ctx, instance); err != nil {
			return nil, err
		}
		result, err := m.start(ctx, instance)
		if err != nil {
			return nil, err
		}
		result.Operation = NodeRestart
		return result, nil
	case NodeStatus:
		return m.status(ctx, instance)
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

func (m *ManageNode) start(ctx context.Context, instance *domain.AnvilInstance) (*ManageNodeResult, error) {
	status, err := m.anvilManager.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return nil, fmt.Errorf("anvil '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	m.progress.Info(fmt.Sprintf("Starting local anvil node '%s' on port %s...", instance.Name, instance.Port))
	if err := m.anvilManager.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	status, err = m.anvilManager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after start: %w", err)
	}

	return &ManageNodeResult{
		Operation: NodeStart,
		Instance:  instance,
		Status:    status,
		Message:   fmt.Sprintf("Anvil '%s' started with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageNode) stop(ctx context.Context, instance *domain.AnvilInstance) (*ManageNodeResult, error) {
	status, err := m.anvilManager.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		return &ManageNodeResult{
			Operation: NodeStop,
			Instance:  instance,
			Message:   fmt.Sprintf("Anvil '%s' is not running", instance.Name),
		}, nil
	}

	m.progress.Info(fmt.Sprintf("Stopping anvil '%s'...", instance.Name))
	if err := m.anvilManager.Stop(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to stop anvil: %w", err)
	}

	return &ManageNodeResult{
		Operation: NodeStop,
		Instance:  instance,
		Message:   fmt.Sprintf("Anvil '%s' stopped", instance.Name),
	}, nil
}

func (m *ManageNode) status(ctx context.Context, instance *domain.AnvilInstance) (*ManageNodeResult, error) {
	status, err := m.anvilManager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return &ManageNodeResult{
		Operation: NodeStatus,
		Instance:  instance,
		Status:    status,
	}, nil
}
