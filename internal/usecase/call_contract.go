package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// CallContractParams contains parameters for a read-only contract call
type CallContractParams struct {
	Reference string
	Method    string
	Args      []string
	// ABIPath overrides the ABI recorded with the deployment
	ABIPath string
}

// CallContractResult contains the decoded call outputs
type CallContractResult struct {
	Node    *domain.NodeInfo
	Record  *domain.DeploymentRecord // nil when called by bare address
	Address common.Address
	Method  abi.Method
	Outputs []any
	// Simulated is set when the method is state-changing and the call only simulated it
	Simulated bool
}

// CallContract binds a handle to a deployed contract and performs an eth_call through it
type CallContract struct {
	cfg       *config.RuntimeConfig
	resolver  *ResolveDeployment
	loader    ArtifactLoader
	encoder   ArgumentEncoder
	connector NodeConnector
	binder    ContractBinder
}

// NewCallContract creates a new CallContract use case
func NewCallContract(
	cfg *config.RuntimeConfig,
	resolver *ResolveDeployment,
	loader ArtifactLoader,
	encoder ArgumentEncoder,
	connector NodeConnector,
	binder ContractBinder,
) *CallContract {
	return &CallContract{
		cfg:       cfg,
		resolver:  resolver,
		loader:    loader,
		encoder:   encoder,
		connector: connector,
		binder:    binder,
	}
}

// Run executes the use case
func (uc *CallContract) Run(ctx context.Context, params CallContractParams) (*CallContractResult, error) {
	node, err := uc.connector.Connect(ctx, uc.cfg.Network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connectivity check failed: %w", err)
	}
	defer uc.connector.Close()

	result := &CallContractResult{Node: node}

	record, err := uc.resolver.Resolve(ctx, params.Reference, node.ChainID)
	switch {
	case err == nil:
		result.Record = record
		result.Address = common.HexToAddress(record.Address)
	case errors.Is(err, domain.ErrNotFound) && common.IsHexAddress(params.Reference):
		result.Address = common.HexToAddress(params.Reference)
	default:
		return nil, err
	}

	abiPath := params.ABIPath
	if abiPath == "" && record != nil {
		abiPath = record.ABIPath
	}
	if abiPath == "" {
		abiPath = uc.cfg.Artifacts.ABI
	}

	contractABI, err := uc.loader.LoadABI(ctx, abiPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ABI: %w", err)
	}

	method, ok := contractABI.Methods[params.Method]
	if !ok {
		names := lo.Keys(contractABI.Methods)
		sort.Strings(names)
		return nil, fmt.Errorf("%w: no method '%s' in ABI (available: %s)", domain.ErrInvalidArgument, params.Method, strings.Join(names, ", "))
	}
	result.Method = method
	result.Simulated = !method.IsConstant()

	args, err := uc.encoder.EncodeArguments(method.Inputs, params.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments for %s: %w", method.Sig, err)
	}

	handle, err := uc.binder.Bind(result.Address, contractABI)
	if err != nil {
		return nil, fmt.Errorf("failed to bind contract handle: %w", err)
	}

	outputs, err := uc.binder.Call(ctx, handle, method.Name, args...)
	if err != nil {
		return nil, fmt.Errorf("call to %s failed: %w", method.Sig, err)
	}
	result.Outputs = outputs

	return result, nil
}
