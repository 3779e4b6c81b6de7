package domain

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// SenderType selects how the deployment transaction is signed
type SenderType string

const (
	// SenderTypeUnlocked lets the node sign with one of its managed accounts (eth_sendTransaction)
	SenderTypeUnlocked SenderType = "unlocked"
	// SenderTypePrivateKey signs locally with a raw secp256k1 key
	SenderTypePrivateKey SenderType = "private_key"
)

// Sender is the account that submits deployments
type Sender struct {
	Type       SenderType `json:"type"`
	Address    string     `json:"address,omitempty"`
	PrivateKey string     `json:"-"`
}

// DeploymentPlan is everything needed to submit one contract creation
type DeploymentPlan struct {
	Artifact     *Artifact
	Args         []any
	RawArgs      []string
	Calldata     []byte
	Sender       Sender
	From         common.Address
	ChainID      uint64
	Network      string
	GasLimit     uint64
	EstimatedGas uint64
}

// Submission is the acknowledgment of a submitted deployment transaction
type Submission struct {
	TxHash           common.Hash
	From             common.Address
	Nonce            uint64
	PredictedAddress common.Address
}

// Receipt is the confirmation record of a mined deployment transaction
type Receipt struct {
	TxHash          common.Hash
	ContractAddress common.Address
	BlockNumber     uint64
	GasUsed         uint64
	Status          uint64
}

// Receipt status values, mirroring types.ReceiptStatusFailed/Successful
const (
	ReceiptStatusFailed     uint64 = 0
	ReceiptStatusSuccessful uint64 = 1
)

// Succeeded reports whether the transaction executed without reverting
func (r *Receipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccessful
}

// ContractHandle is a local reference to a deployed contract
type ContractHandle struct {
	Address  common.Address
	ABI      *abi.ABI
	Contract *bind.BoundContract
}

// DeploymentRecord is the persisted registry entry for a successful deployment
type DeploymentRecord struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Label        string    `json:"label,omitempty" yaml:"label,omitempty"`
	ChainID      uint64    `json:"chainId" yaml:"chainId"`
	Network      string    `json:"network,omitempty" yaml:"network,omitempty"`
	Address      string    `json:"address" yaml:"address"`
	TxHash       string    `json:"txHash" yaml:"txHash"`
	BlockNumber  uint64    `json:"blockNumber" yaml:"blockNumber"`
	GasUsed      uint64    `json:"gasUsed" yaml:"gasUsed"`
	Deployer     string    `json:"deployer" yaml:"deployer"`
	ABIPath      string    `json:"abiPath,omitempty" yaml:"abiPath,omitempty"`
	BinPath      string    `json:"binPath,omitempty" yaml:"binPath,omitempty"`
	BytecodeHash string    `json:"bytecodeHash" yaml:"bytecodeHash"`
	DeployedAt   time.Time `json:"deployedAt" yaml:"deployedAt"`
}

// DeploymentID builds the registry key of a deployment
func DeploymentID(chainID uint64, address common.Address) string {
	return fmt.Sprintf("%d/%s", chainID, address.Hex())
}

// DisplayName returns Name or Name:label
func (d *DeploymentRecord) DisplayName() string {
	if d.Label == "" {
		return d.Name
	}
	return d.Name + ":" + d.Label
}

// DeploymentFilter narrows registry listings. Zero values match everything.
type DeploymentFilter struct {
	ChainID uint64
	Name    string
	Label   string
}

// Matches reports whether a record passes the filter
func (f DeploymentFilter) Matches(d *DeploymentRecord) bool {
	if f.ChainID != 0 && d.ChainID != f.ChainID {
		return false
	}
	if f.Name != "" && d.Name != f.Name {
		return false
	}
	if f.Label != "" && d.Label != f.Label {
		return false
	}
	return true
}

// ChainIDBig returns the chain ID as a big.Int for signers
func (p *DeploymentPlan) ChainIDBig() *big.Int {
	return new(big.Int).SetUint64(p.ChainID)
}
