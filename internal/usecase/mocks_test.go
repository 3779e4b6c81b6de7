package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const testABI = `[
	{"type":"constructor","inputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"answer","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"set","inputs":[{"name":"v","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}
]`

func parseTestABI(t *testing.T) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(testABI))
	require.NoError(t, err)
	return &parsed
}

func newTestArtifact(t *testing.T) *domain.Artifact {
	return &domain.Artifact{
		Name:     "precompile",
		Source:   domain.ArtifactSourceRaw,
		ABIPath:  "output/precompile.abi",
		BinPath:  "output/precompile.bin",
		ABI:      parseTestABI(t),
		Bytecode: common.FromHex("0x600a600c600039600a6000f3602a60005260206000f3"),
	}
}

// MockArtifactLoader is a mock implementation of ArtifactLoader
type MockArtifactLoader struct {
	mock.Mock
}

func (m *MockArtifactLoader) Load(ctx context.Context, ref domain.ArtifactRef) (*domain.Artifact, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactLoader) LoadABI(ctx context.Context, path string) (*abi.ABI, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*abi.ABI), args.Error(1)
}

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) SaveDeployment(ctx context.Context, record *domain.DeploymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDeploymentRepository) GetDeployment(ctx context.Context, id string) (*domain.DeploymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentRecord), args.Error(1)
}

func (m *MockDeploymentRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*domain.DeploymentRecord, error) {
	args := m.Called(ctx, chainID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentRecord), args.Error(1)
}

func (m *MockDeploymentRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*domain.DeploymentRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeploymentRecord), args.Error(1)
}

// MockPrompter is a mock implementation of DeploymentConfirmer and DeploymentSelector
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) ConfirmDeployment(ctx context.Context, plan *domain.DeploymentPlan) (bool, error) {
	args := m.Called(ctx, plan)
	return args.Bool(0), args.Error(1)
}

func (m *MockPrompter) SelectDeployment(ctx context.Context, deployments []*domain.DeploymentRecord, prompt string) (*domain.DeploymentRecord, error) {
	args := m.Called(ctx, deployments, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentRecord), args.Error(1)
}

// passthroughEncoder hands raw strings through untouched, or fails with err
type passthroughEncoder struct {
	err error
}

func (e *passthroughEncoder) EncodeArguments(args abi.Arguments, raw []string) ([]any, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([]any, len(raw))
	for i, r := range raw {
		out[i] = r
	}
	return out, nil
}

// fakeNode stands in for the node client and records every call made to it
type fakeNode struct {
	mu sync.Mutex

	info       *domain.NodeInfo
	connectErr error
	from       common.Address
	estimate   uint64
	submission *domain.Submission
	submitErr  error
	receipt    *domain.Receipt // nil blocks WaitForReceipt until ctx ends
	waitErr    error
	code       []byte
	outputs    []any
	callErr    error

	calls []string
}

func newFakeNode() *fakeNode {
	from := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	contract := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	txHash := common.HexToHash("0xabc1")

	return &fakeNode{
		info:     &domain.NodeInfo{RPCURL: "http://127.0.0.1:8545", ChainID: domain.AnvilChainID, BlockNumber: 1},
		from:     from,
		estimate: 60000,
		submission: &domain.Submission{
			TxHash:           txHash,
			From:             from,
			PredictedAddress: contract,
		},
		receipt: &domain.Receipt{
			TxHash:          txHash,
			ContractAddress: contract,
			BlockNumber:     2,
			GasUsed:         55000,
			Status:          domain.ReceiptStatusSuccessful,
		},
		code: []byte{0x60, 0x2a},
	}
}

func (n *fakeNode) record(call string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, call)
}

func (n *fakeNode) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

func (n *fakeNode) Connect(ctx context.Context, rpcURL string) (*domain.NodeInfo, error) {
	n.record("Connect")
	if n.connectErr != nil {
		return nil, n.connectErr
	}
	info := *n.info
	info.RPCURL = rpcURL
	return &info, nil
}

func (n *fakeNode) Close() {
	n.record("Close")
}

func (n *fakeNode) ResolveSender(ctx context.Context, sender domain.Sender) (common.Address, error) {
	n.record("ResolveSender")
	return n.from, nil
}

func (n *fakeNode) EstimateDeployment(ctx context.Context, plan *domain.DeploymentPlan) (uint64, error) {
	n.record("EstimateDeployment")
	return n.estimate, nil
}

func (n *fakeNode) SubmitDeployment(ctx context.Context, plan *domain.DeploymentPlan) (*domain.Submission, error) {
	n.record("SubmitDeployment")
	if n.submitErr != nil {
		return nil, n.submitErr
	}
	return n.submission, nil
}

func (n *fakeNode) WaitForReceipt(ctx context.Context, txHash common.Hash, pollInterval time.Duration) (*domain.Receipt, error) {
	n.record("WaitForReceipt")
	if n.waitErr != nil {
		return nil, n.waitErr
	}
	if n.receipt == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return n.receipt, nil
}

func (n *fakeNode) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	n.record("CodeAt")
	return n.code, nil
}

func (n *fakeNode) Bind(address common.Address, contractABI *abi.ABI) (*domain.ContractHandle, error) {
	n.record("Bind")
	return &domain.ContractHandle{Address: address, ABI: contractABI}, nil
}

func (n *fakeNode) Call(ctx context.Context, handle *domain.ContractHandle, method string, args ...any) ([]any, error) {
	n.record("Call:" + method)
	if n.callErr != nil {
		return nil, n.callErr
	}
	return n.outputs, nil
}

// recordingSink is a ProgressSink that keeps everything it is told
type recordingSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (s *recordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.events = append(s.events, event)
}

func (s *recordingSink) Info(message string) {
	s.infos = append(s.infos, message)
}

func (s *recordingSink) Error(message string) {
	s.errors = append(s.errors, message)
}

func (s *recordingSink) stages() []usecase.ExecutionStage {
	stages := make([]usecase.ExecutionStage, 0, len(s.events))
	for _, e := range s.events {
		stages = append(stages, e.Stage)
	}
	return stages
}
