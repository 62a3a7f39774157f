package configloader

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// defaultsDocument is the built-in toolchain configuration.
//
//go:embed defaults.yml
var defaultsDocument []byte

// DefaultsDocument returns a copy of the built-in configuration document.
func DefaultsDocument() []byte {
	return append([]byte(nil), defaultsDocument...)
}

// SimulatedNetworkName is the in-process chain-forking node. It is the only
// profile that never needs a credential.
const SimulatedNetworkName = "hardhat"

// secretRef points at a value held in the environment, never a literal secret.
type secretRef struct {
	Env string `yaml:"env"`
}

type forkingDoc struct {
	URL         string  `yaml:"url"`
	Enabled     bool    `yaml:"enabled"`
	BlockNumber *uint64 `yaml:"blockNumber"`
}

type networkDoc struct {
	URL      string      `yaml:"url"`
	ChainID  uint64      `yaml:"chainId"`
	GasPrice *uint64     `yaml:"gasPrice"`
	Accounts []secretRef `yaml:"accounts"`
	Forking  *forkingDoc `yaml:"forking"`
}

type typechainDoc struct {
	OutDir string `yaml:"outDir"`
	Target string `yaml:"target"`
}

type etherscanDoc struct {
	APIKey secretRef `yaml:"apiKey"`
}

type sourcifyDoc struct {
	Enabled bool `yaml:"enabled"`
}

// document is the on-disk shape of a toolchain configuration.
type document struct {
	Solidity       string                `yaml:"solidity"`
	DefaultNetwork string                `yaml:"defaultNetwork"`
	Networks       map[string]networkDoc `yaml:"networks"`
	Typechain      typechainDoc          `yaml:"typechain"`
	Etherscan      etherscanDoc          `yaml:"etherscan"`
	Sourcify       sourcifyDoc           `yaml:"sourcify"`
}

// decodeDocument decodes exactly one YAML document, rejecting unknown fields.
func decodeDocument(data []byte) (*document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config document: document is empty")
		}
		return nil, fmt.Errorf("failed to decode config document: %w", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config document: expected a single YAML document")
	}
	return &doc, nil
}
