package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// DeploymentsFile is the registry file inside the data directory
const DeploymentsFile = "deployments.json"

// FileRepository stores deployment records in a json file keyed by deployment ID
type FileRepository struct {
	dataDir     string
	mu          sync.RWMutex
	deployments map[string]*domain.DeploymentRecord
	byAddress   map[uint64]map[string]string
}

// NewFileRepository creates a repository backed by <dataDir>/deployments.json.
// The data directory is created on first save.
func NewFileRepository(cfg *config.RuntimeConfig) (*FileRepository, error) {
	m := &FileRepository{
		dataDir:     cfg.DataDir,
		deployments: make(map[string]*domain.DeploymentRecord),
	}

	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	return m, nil
}

// Path returns the location of the registry file
func (m *FileRepository) Path() string {
	return filepath.Join(m.dataDir, DeploymentsFile)
}

// load reads the registry file
func (m *FileRepository) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.Path())
	if err != nil {
		if os.IsNotExist(err) {
			m.rebuildLookups()
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, &m.deployments); err != nil {
		return fmt.Errorf("failed to parse %s: %w", m.Path(), err)
	}
	if m.deployments == nil {
		m.deployments = make(map[string]*domain.DeploymentRecord)
	}

	m.rebuildLookups()
	return nil
}

// save writes the registry file
func (m *FileRepository) save() error {
	if err := os.MkdirAll(m.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", m.dataDir, err)
	}

	data, err := json.MarshalIndent(m.deployments, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	path := m.Path()
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, path)
}

func (m *FileRepository) rebuildLookups() {
	m.byAddress = make(map[uint64]map[string]string)
	for id, dep := range m.deployments {
		if m.byAddress[dep.ChainID] == nil {
			m.byAddress[dep.ChainID] = make(map[string]string)
		}
		m.byAddress[dep.ChainID][strings.ToLower(dep.Address)] = id
	}
}

// SaveDeployment inserts or replaces a deployment record
func (m *FileRepository) SaveDeployment(ctx context.Context, record *domain.DeploymentRecord) error {
	if record.ID == "" {
		return fmt.Errorf("deployment record has no ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *record
	previous, existed := m.deployments[record.ID]
	m.deployments[record.ID] = &clone

	if err := m.save(); err != nil {
		if existed {
			m.deployments[record.ID] = previous
		} else {
			delete(m.deployments, record.ID)
		}
		return fmt.Errorf("failed to save deployments: %w", err)
	}

	m.rebuildLookups()
	return nil
}

// GetDeployment retrieves a deployment by ID
func (m *FileRepository) GetDeployment(ctx context.Context, id string) (*domain.DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dep, exists := m.deployments[id]
	if !exists {
		return nil, domain.ErrNotFound
	}

	// Clone to avoid mutations
	clone := *dep
	return &clone, nil
}

// GetDeploymentByAddress retrieves a deployment by chain ID and address
func (m *FileRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*domain.DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.byAddress[chainID][strings.ToLower(address)]
	if !exists {
		return nil, domain.ErrNotFound
	}

	clone := *m.deployments[id]
	return &clone, nil
}

// ListDeployments retrieves deployments matching the filter
func (m *FileRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*domain.DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matching := lo.Filter(lo.Values(m.deployments), func(dep *domain.DeploymentRecord, _ int) bool {
		return filter.Matches(dep)
	})

	return lo.Map(matching, func(dep *domain.DeploymentRecord, _ int) *domain.DeploymentRecord {
		clone := *dep
		return &clone
	}), nil
}
