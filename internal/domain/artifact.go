package domain

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ArtifactSource identifies the on-disk layout an artifact was read from
type ArtifactSource string

const (
	// ArtifactSourceRaw is a separate .abi + .bin file pair (solc --abi --bin output)
	ArtifactSourceRaw ArtifactSource = "raw"
	// ArtifactSourceJSON is a single JSON artifact with abi and bytecode keys (forge/hardhat)
	ArtifactSourceJSON ArtifactSource = "json"
)

// ArtifactRef points at the files making up an artifact.
// When ArtifactPath is set it takes precedence over the ABI/Bin pair.
type ArtifactRef struct {
	Name         string
	ABIPath      string
	BinPath      string
	ArtifactPath string
}

// Artifact is a loaded contract interface description and creation bytecode
type Artifact struct {
	Name     string
	Source   ArtifactSource
	ABIPath  string
	BinPath  string
	ABI      *abi.ABI
	RawABI   []byte
	Bytecode []byte
}

// BytecodeHash returns the keccak256 hash of the creation bytecode
func (a *Artifact) BytecodeHash() common.Hash {
	return crypto.Keccak256Hash(a.Bytecode)
}

// HasConstructorInputs reports whether deploying requires constructor arguments
func (a *Artifact) HasConstructorInputs() bool {
	return a.ABI != nil && len(a.ABI.Constructor.Inputs) > 0
}
