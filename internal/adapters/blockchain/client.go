package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const probeTimeout = 10 * time.Second

// Backend is the subset of ethclient.Client the node client needs
type Backend interface {
	bind.ContractBackend
	ethereum.ChainIDReader
	ethereum.BlockNumberReader
	ethereum.TransactionReader
}

// rpcCaller issues raw JSON-RPC calls for methods ethclient does not wrap
type rpcCaller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

type dialFunc func(ctx context.Context, rpcURL string) (Backend, rpcCaller, func(), error)

// NodeClient talks to an Ethereum node over JSON-RPC
type NodeClient struct {
	log     *slog.Logger
	dial    dialFunc
	backend Backend
	rpc     rpcCaller
	closer  func()
}

// NewNodeClient creates a node client that dials over go-ethereum's rpc package
func NewNodeClient(log *slog.Logger) *NodeClient {
	return &NodeClient{
		log:  log.With("component", "node"),
		dial: dialRPC,
	}
}

func dialRPC(ctx context.Context, rpcURL string) (Backend, rpcCaller, func(), error) {
	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return ethclient.NewClient(client), client, client.Close, nil
}

// Connect dials the node and asserts it answers chain queries
func (c *NodeClient) Connect(ctx context.Context, rpcURL string) (*domain.NodeInfo, error) {
	c.Close()

	backend, caller, closer, err := c.dial(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNotConnected, rpcURL, err)
	}
	c.backend, c.rpc, c.closer = backend, caller, closer

	info, err := c.probe(ctx, rpcURL)
	if err != nil {
		c.Close()
		return nil, err
	}
	return info, nil
}

func (c *NodeClient) probe(ctx context.Context, rpcURL string) (*domain.NodeInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNotConnected, rpcURL, err)
	}

	blockNumber, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNotConnected, rpcURL, err)
	}

	info := &domain.NodeInfo{
		RPCURL:      rpcURL,
		ChainID:     chainID.Uint64(),
		BlockNumber: blockNumber,
	}

	if c.rpc != nil {
		var version string
		if err := c.rpc.CallContext(ctx, &version, "web3_clientVersion"); err != nil {
			c.log.Debug("web3_clientVersion unavailable", "error", err)
		} else {
			info.ClientVersion = version
		}
	}

	return info, nil
}

// Close releases the connection. It is safe to call more than once.
func (c *NodeClient) Close() {
	if c.closer != nil {
		c.closer()
	}
	c.backend, c.rpc, c.closer = nil, nil, nil
}

func (c *NodeClient) requireBackend() (Backend, error) {
	if c.backend == nil {
		return nil, domain.ErrNotConnected
	}
	return c.backend, nil
}

// ResolveSender returns the address deployments will be sent from
func (c *NodeClient) ResolveSender(ctx context.Context, sender domain.Sender) (common.Address, error) {
	switch sender.Type {
	case domain.SenderTypePrivateKey:
		key, err := parsePrivateKey(sender.PrivateKey)
		if err != nil {
			return common.Address{}, err
		}
		from := crypto.PubkeyToAddress(key.PublicKey)
		if sender.Address != "" && common.HexToAddress(sender.Address) != from {
			return common.Address{}, fmt.Errorf("%w: private key controls %s, not the configured address %s",
				domain.ErrInvalidSender, from.Hex(), sender.Address)
		}
		return from, nil

	case domain.SenderTypeUnlocked, "":
		if sender.Address != "" {
			if !common.IsHexAddress(sender.Address) {
				return common.Address{}, fmt.Errorf("%w: invalid sender address %q", domain.ErrInvalidSender, sender.Address)
			}
			return common.HexToAddress(sender.Address), nil
		}
		return c.firstAccount(ctx)

	default:
		return common.Address{}, fmt.Errorf("%w: unsupported sender type %q", domain.ErrInvalidSender, sender.Type)
	}
}

func (c *NodeClient) firstAccount(ctx context.Context) (common.Address, error) {
	if c.rpc == nil {
		return common.Address{}, fmt.Errorf("%w: node does not expose eth_accounts, configure a sender address or private key", domain.ErrInvalidSender)
	}

	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return common.Address{}, fmt.Errorf("eth_accounts failed: %w", err)
	}
	if len(accounts) == 0 {
		return common.Address{}, fmt.Errorf("%w: node manages no unlocked accounts", domain.ErrInvalidSender)
	}

	c.log.Debug("using first unlocked account", "address", accounts[0].Hex(), "available", len(accounts))
	return accounts[0], nil
}

// EstimateDeployment returns the configured gas limit, or asks the node for an estimate
func (c *NodeClient) EstimateDeployment(ctx context.Context, plan *domain.DeploymentPlan) (uint64, error) {
	if plan.GasLimit > 0 {
		return plan.GasLimit, nil
	}

	backend, err := c.requireBackend()
	if err != nil {
		return 0, err
	}

	gas, err := backend.EstimateGas(ctx, ethereum.CallMsg{
		From: plan.From,
		Data: plan.Calldata,
	})
	if err != nil {
		return 0, err
	}
	return gas, nil
}

// SubmitDeployment sends the contract creation transaction
func (c *NodeClient) SubmitDeployment(ctx context.Context, plan *domain.DeploymentPlan) (*domain.Submission, error) {
	backend, err := c.requireBackend()
	if err != nil {
		return nil, err
	}

	nonce, err := backend.PendingNonceAt(ctx, plan.From)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce for %s: %w", plan.From.Hex(), err)
	}

	switch plan.Sender.Type {
	case domain.SenderTypePrivateKey:
		return c.submitSigned(ctx, backend, plan, nonce)
	default:
		return c.submitUnlocked(ctx, plan, nonce)
	}
}

func (c *NodeClient) submitSigned(ctx context.Context, backend Backend, plan *domain.DeploymentPlan, nonce uint64) (*domain.Submission, error) {
	key, err := parsePrivateKey(plan.Sender.PrivateKey)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, plan.ChainIDBig())
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.Nonce = new(big.Int).SetUint64(nonce)
	opts.GasLimit = plan.GasLimit

	address, tx, _, err := bind.DeployContract(opts, *plan.Artifact.ABI, plan.Artifact.Bytecode, backend, plan.Args...)
	if err != nil {
		return nil, err
	}

	c.log.Debug("signed deployment sent", "tx", tx.Hash().Hex(), "nonce", nonce, "gas", tx.Gas())
	return &domain.Submission{
		TxHash:           tx.Hash(),
		From:             opts.From,
		Nonce:            nonce,
		PredictedAddress: address,
	}, nil
}

// sendTxArgs is the eth_sendTransaction request object
type sendTxArgs struct {
	From  common.Address  `json:"from"`
	Data  hexutil.Bytes   `json:"data"`
	Nonce hexutil.Uint64  `json:"nonce"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

func (c *NodeClient) submitUnlocked(ctx context.Context, plan *domain.DeploymentPlan, nonce uint64) (*domain.Submission, error) {
	if c.rpc == nil {
		return nil, fmt.Errorf("%w: node does not accept eth_sendTransaction", domain.ErrInvalidSender)
	}

	args := sendTxArgs{
		From:  plan.From,
		Data:  plan.Calldata,
		Nonce: hexutil.Uint64(nonce),
	}
	if plan.GasLimit > 0 {
		gas := hexutil.Uint64(plan.GasLimit)
		args.Gas = &gas
	}

	var txHash common.Hash
	if err := c.rpc.CallContext(ctx, &txHash, "eth_sendTransaction", args); err != nil {
		return nil, err
	}

	c.log.Debug("unlocked deployment sent", "tx", txHash.Hex(), "nonce", nonce)
	return &domain.Submission{
		TxHash:           txHash,
		From:             plan.From,
		Nonce:            nonce,
		PredictedAddress: crypto.CreateAddress(plan.From, nonce),
	}, nil
}

// WaitForReceipt polls for the receipt until it is available or ctx ends
func (c *NodeClient) WaitForReceipt(ctx context.Context, txHash common.Hash, pollInterval time.Duration) (*domain.Receipt, error) {
	backend, err := c.requireBackend()
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			return toDomainReceipt(receipt), nil
		}

		if errors.Is(err, ethereum.NotFound) {
			c.log.Debug("transaction not yet mined", "tx", txHash.Hex())
		} else if ctx.Err() == nil {
			c.log.Debug("receipt retrieval failed", "tx", txHash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func toDomainReceipt(receipt *types.Receipt) *domain.Receipt {
	out := &domain.Receipt{
		TxHash:          receipt.TxHash,
		ContractAddress: receipt.ContractAddress,
		GasUsed:         receipt.GasUsed,
		Status:          receipt.Status,
	}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return out
}

// CodeAt returns the runtime code at address in the latest block
func (c *NodeClient) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	backend, err := c.requireBackend()
	if err != nil {
		return nil, err
	}
	return backend.CodeAt(ctx, address, nil)
}

// Bind creates a contract handle at address
func (c *NodeClient) Bind(address common.Address, contractABI *abi.ABI) (*domain.ContractHandle, error) {
	backend, err := c.requireBackend()
	if err != nil {
		return nil, err
	}
	if contractABI == nil {
		return nil, fmt.Errorf("%w: no ABI to bind %s", domain.ErrInvalidArtifact, address.Hex())
	}

	return &domain.ContractHandle{
		Address:  address,
		ABI:      contractABI,
		Contract: bind.NewBoundContract(address, *contractABI, backend, backend, backend),
	}, nil
}

// Call performs a read-only call against the handle
func (c *NodeClient) Call(ctx context.Context, handle *domain.ContractHandle, method string, args ...any) ([]any, error) {
	if handle == nil || handle.Contract == nil {
		return nil, domain.ErrNotConnected
	}

	var out []any
	if err := handle.Contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func parsePrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: no private key configured", domain.ErrInvalidSender)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		// The key itself must never end up in an error message
		return nil, fmt.Errorf("%w: malformed private key", domain.ErrInvalidSender)
	}
	return key, nil
}

var (
	_ usecase.NodeConnector    = (*NodeClient)(nil)
	_ usecase.ContractDeployer = (*NodeClient)(nil)
	_ usecase.ReceiptWaiter    = (*NodeClient)(nil)
	_ usecase.ContractBinder   = (*NodeClient)(nil)
)
