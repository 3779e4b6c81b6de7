package domain

// Local development chain IDs (anvil/hardhat and geth --dev)
const (
	AnvilChainID   uint64 = 31337
	GethDevChainID uint64 = 1337
)

// NodeInfo describes the node answered at an RPC endpoint
type NodeInfo struct {
	RPCURL        string `json:"rpcUrl"`
	ChainID       uint64 `json:"chainId"`
	ClientVersion string `json:"clientVersion,omitempty"`
	BlockNumber   uint64 `json:"blockNumber"`
}

// IsLocalDevChain reports whether the node runs a well-known local development chain
func (n *NodeInfo) IsLocalDevChain() bool {
	return n.ChainID == AnvilChainID || n.ChainID == GethDevChainID
}

// Network is a named RPC endpoint
type Network struct {
	Name   string `json:"name"`
	RPCURL string `json:"rpcUrl"`
}
