package registry

import "fmt"

// ChainInfo describes a supported network for display purposes.
type ChainInfo struct {
	Name      string
	ShortName string
	Explorer  string
}

var chains = map[uint64]ChainInfo{
	1:     {Name: "Ethereum", ShortName: "ETH", Explorer: "https://etherscan.io"},
	10:    {Name: "Optimism", ShortName: "OP", Explorer: "https://optimistic.etherscan.io"},
	56:    {Name: "BNB Chain", ShortName: "BNB", Explorer: "https://bscscan.com"},
	137:   {Name: "Polygon", ShortName: "MATIC", Explorer: "https://polygonscan.com"},
	324:   {Name: "zkSync", ShortName: "ZKS", Explorer: "https://explorer.zksync.io"},
	8453:  {Name: "Base", ShortName: "BASE", Explorer: "https://basescan.org"},
	42161: {Name: "Arbitrum", ShortName: "ARB", Explorer: "https://arbiscan.io"},
}

// ChainName resolves a human-readable network name for chain-mismatch
// messages and display labels.
func ChainName(chainID uint64) string {
	if info, ok := chains[chainID]; ok {
		return info.Name
	}
	return fmt.Sprintf("Chain %d", chainID)
}

// ExplorerURL resolves the block explorer base URL for a chain, defaulting to
// Etherscan.
func ExplorerURL(chainID uint64) string {
	if info, ok := chains[chainID]; ok {
		return info.Explorer
	}
	return "https://etherscan.io"
}
