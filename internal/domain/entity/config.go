package entity

import "sort"

// CompilerSettings holds the single compiler version applied to all contract sources.
type CompilerSettings struct {
	Version string `json:"version" yaml:"version" validate:"required,semver"`
}

// BindingSettings configures the external type-binding generator.
type BindingSettings struct {
	OutDir string `json:"outDir" yaml:"outDir" validate:"required"`
	Target string `json:"target" yaml:"target" validate:"required,oneof=ethers-v5 ethers-v6 web3-v1 truffle-v5"`
}

// VerificationSettings configures the block-explorer verification service and
// the decentralized source-verification mirror.
type VerificationSettings struct {
	APIKey        string `json:"-" yaml:"-"`
	APIKeyRef     string `json:"apiKeyRef,omitempty" yaml:"apiKeyRef,omitempty"`
	MirrorEnabled bool   `json:"mirrorEnabled" yaml:"mirrorEnabled"`
}

// HasAPIKey reports whether the verification key resolved to a non-empty value.
func (v VerificationSettings) HasAPIKey() bool {
	return v.APIKey != ""
}

// Config aggregates every setting the external toolchain reads.
type Config struct {
	Compiler       CompilerSettings          `json:"compiler" yaml:"compiler"`
	DefaultNetwork string                    `json:"defaultNetwork" yaml:"defaultNetwork"`
	Networks       map[string]NetworkProfile `json:"networks" yaml:"networks" validate:"required,dive"`
	Bindings       BindingSettings           `json:"bindings" yaml:"bindings"`
	Verification   VerificationSettings      `json:"verification" yaml:"verification"`
}

// Network returns a copy of the named profile.
func (c *Config) Network(name string) (NetworkProfile, bool) {
	if c == nil {
		return NetworkProfile{}, false
	}
	p, ok := c.Networks[name]
	if !ok {
		return NetworkProfile{}, false
	}
	return p.Clone(), true
}

// NetworkNames returns the profile names in lexical order.
func (c *Config) NetworkNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Networks = make(map[string]NetworkProfile, len(c.Networks))
	for name, p := range c.Networks {
		out.Networks[name] = p.Clone()
	}
	return &out
}

// Redacted returns a deep copy with every resolved secret removed.
func (c *Config) Redacted() *Config {
	out := c.Clone()
	if out == nil {
		return nil
	}
	for name, p := range out.Networks {
		p.Credentials = nil
		out.Networks[name] = p
	}
	out.Verification.APIKey = ""
	return out
}
