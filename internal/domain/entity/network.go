package entity

// NetworkProfile describes one blockchain endpoint an external tool may target.
// Profiles are created by the config loader and are never modified afterwards.
type NetworkProfile struct {
	Name    string `json:"name" yaml:"name" validate:"required"`
	RPCURL  string `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty" validate:"omitempty,url"`
	ChainID uint64 `json:"chainId" yaml:"chainId" validate:"gt=0"`
	// Simulated marks the local chain-forking node. It performs no signing.
	Simulated bool `json:"simulated,omitempty" yaml:"simulated,omitempty"`
	// CredentialRefs are the environment variable names feeding Credentials, in order.
	CredentialRefs []string `json:"credentialRefs,omitempty" yaml:"credentialRefs,omitempty" validate:"dive,required"`
	// Credentials holds the resolved secrets. Never serialized.
	Credentials []string    `json:"-" yaml:"-"`
	Fork        *ForkConfig `json:"fork,omitempty" yaml:"fork,omitempty"`
	GasPrice    *uint64     `json:"gasPrice,omitempty" yaml:"gasPrice,omitempty"`
}

// ForkConfig pins the simulated network to a historical block of a live chain.
type ForkConfig struct {
	URL         string  `json:"url" yaml:"url" validate:"omitempty,url"`
	Enabled     bool    `json:"enabled" yaml:"enabled"`
	BlockNumber *uint64 `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
}

// HasCredentials reports whether every credential slot has a resolved value.
func (p NetworkProfile) HasCredentials() bool {
	if len(p.Credentials) != len(p.CredentialRefs) {
		return false
	}
	for _, c := range p.Credentials {
		if c == "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the profile so callers cannot alias loader state.
func (p NetworkProfile) Clone() NetworkProfile {
	out := p
	if p.CredentialRefs != nil {
		out.CredentialRefs = append([]string(nil), p.CredentialRefs...)
	}
	if p.Credentials != nil {
		out.Credentials = append([]string(nil), p.Credentials...)
	}
	if p.Fork != nil {
		f := *p.Fork
		if p.Fork.BlockNumber != nil {
			bn := *p.Fork.BlockNumber
			f.BlockNumber = &bn
		}
		out.Fork = &f
	}
	if p.GasPrice != nil {
		gp := *p.GasPrice
		out.GasPrice = &gp
	}
	return out
}

// NetworkDefinition holds the real identity of a known blockchain network.
// It is used to cross-check the chain ID configured for a live profile.
type NetworkDefinition struct {
	ChainID          uint64   `json:"chainId" yaml:"chainId"`
	Name             string   `json:"name" yaml:"name"`
	Identifier       string   `json:"identifier" yaml:"identifier"` // e.g. "avalanche", "fuji"
	NativeSymbol     string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals         int32    `json:"decimals" yaml:"decimals"`
	RPCHosts         []string `json:"rpcHosts" yaml:"rpcHosts"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	Testnet          bool     `json:"testnet,omitempty" yaml:"testnet,omitempty"`
}
