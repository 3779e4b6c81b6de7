package anvil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const (
	DefaultAnvilName = "anvil"
	DefaultAnvilPort = "8545"

	startupTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	healthTimeout   = 2 * time.Second
)

// Manager runs anvil as a detached background process tracked through a pid file
type Manager struct {
	log      *slog.Logger
	stateDir string
	lookPath func(file string) (string, error)
	pollWait time.Duration
}

// NewManager creates a new anvil manager keeping its pid and log files under the data dir
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	return &Manager{
		log:      log.With("component", "anvil"),
		stateDir: filepath.Join(cfg.DataDir, "anvil"),
		lookPath: exec.LookPath,
		pollWait: 200 * time.Millisecond,
	}
}

// Start launches anvil and waits until its RPC answers
func (m *Manager) Start(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)

	if chainID, _, err := probe(ctx, rpcURL(instance)); err == nil {
		return fmt.Errorf("%w on %s (chain ID %d)", domain.ErrNodeAlreadyRunning, rpcURL(instance), chainID)
	}

	binary, err := m.lookPath("anvil")
	if err != nil {
		return fmt.Errorf("anvil not found in PATH (install foundry: https://getfoundry.sh): %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(instance.PidFile), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(instance.PidFile), err)
	}

	logFile, err := os.OpenFile(instance.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	// The child keeps its own descriptor
	defer logFile.Close()

	cmd := exec.Command(binary, buildAnvilArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}
	pid := cmd.Process.Pid
	m.log.Debug("anvil started", "pid", pid, "args", cmd.Args)

	if err := writePidFile(instance.PidFile, pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	_ = cmd.Process.Release()

	if err := m.waitHealthy(ctx, instance); err != nil {
		_ = terminate(pid)
		_ = os.Remove(instance.PidFile)
		return fmt.Errorf("anvil did not become ready (see %s): %w", instance.LogFile, err)
	}

	return nil
}

// Stop terminates the process recorded in the pid file
func (m *Manager) Stop(ctx context.Context, instance *domain.AnvilInstance) error {
	m.setFilePaths(instance)

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	if processAlive(pid) {
		if err := terminate(pid); err != nil {
			return fmt.Errorf("failed to stop process %d: %w", pid, err)
		}

		deadline := time.Now().Add(shutdownTimeout)
		for processAlive(pid) && time.Now().Before(deadline) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.pollWait):
			}
		}
		if processAlive(pid) {
			return fmt.Errorf("process %d still running after %s", pid, shutdownTimeout)
		}
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus reports whether the instance runs and whether its RPC answers
func (m *Manager) GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	m.setFilePaths(instance)

	status := &domain.AnvilStatus{
		RPCURL:  rpcURL(instance),
		LogFile: instance.LogFile,
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			status.Error = err.Error()
		}
		return status, nil
	}

	if !processAlive(pid) {
		status.Error = fmt.Sprintf("stale PID file for process %d", pid)
		return status, nil
	}

	status.Running = true
	status.PID = pid

	chainID, block, err := probe(ctx, status.RPCURL)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.ChainID = chainID
	status.BlockNumber = block

	return status, nil
}

func (m *Manager) waitHealthy(ctx context.Context, instance *domain.AnvilInstance) error {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	url := rpcURL(instance)
	for {
		_, _, err := probe(ctx, url)
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(m.pollWait):
		}
	}
}

// setFilePaths fills in defaults for the instance name, port and state files
func (m *Manager) setFilePaths(instance *domain.AnvilInstance) {
	if instance.Name == "" {
		instance.Name = DefaultAnvilName
	}
	if instance.Port == "" {
		instance.Port = DefaultAnvilPort
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(m.stateDir, instance.Name+".pid")
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.stateDir, instance.Name+".log")
	}
}

func buildAnvilArgs(instance *domain.AnvilInstance) []string {
	args := []string{"--port", instance.Port, "--host", "127.0.0.1"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	return args
}

func rpcURL(instance *domain.AnvilInstance) string {
	return "http://127.0.0.1:" + instance.Port
}

// probe queries chain ID and block number
func probe(ctx context.Context, url string) (uint64, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return 0, 0, err
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, 0, err
	}
	block, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, 0, err
	}
	return chainID.Uint64(), block, nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in %s: %q", path, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

var _ usecase.AnvilManager = (*Manager)(nil)
