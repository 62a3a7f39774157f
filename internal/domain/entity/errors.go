package entity

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is matched by every MissingCredentialError via errors.Is.
var ErrMissingCredential = errors.New("missing credential")

// ErrChainIDMismatch is matched by every ChainIDMismatchError via errors.Is.
var ErrChainIDMismatch = errors.New("chain id mismatch")

// MissingCredentialError is returned when a live network's secret is absent
// from the environment at load time.
type MissingCredentialError struct {
	Network string
	EnvVar  string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential for network %q: environment variable %s is not set", e.Network, e.EnvVar)
}

// Is makes errors.Is(err, ErrMissingCredential) work.
func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// ChainIDMismatchError is returned when a live profile's chain ID does not
// match the known identity of the network its RPC URL points to.
type ChainIDMismatchError struct {
	Network    string
	Configured uint64
	Reported   uint64
	Source     string // "registry" or "rpc"
}

func (e *ChainIDMismatchError) Error() string {
	return fmt.Sprintf("network %q is configured with chain id %d but %s reports %d", e.Network, e.Configured, e.Source, e.Reported)
}

func (e *ChainIDMismatchError) Is(target error) bool {
	return target == ErrChainIDMismatch
}

// ValidationError represents a structural problem in a profile document.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Field, e.Message)
}
