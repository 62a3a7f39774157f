package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolchain_config/internal/domain/entity"
)

// run executes toolchainctl with an isolated dotenv path and returns the combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ResetFlags()
	var buf bytes.Buffer
	SetOutput(&buf)
	dotenv := filepath.Join(t.TempDir(), ".env")
	err := ExecuteWithArgs(append([]string{"--dotenv", dotenv}, args...))
	return buf.String(), err
}

func clearSecrets(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PRIVATE_KEY", "ETHERSACN_PRIVATE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "toolchainctl dev")

	out, err = run(t, "--verbose", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:")
}

func TestRootCommandHelp(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	for _, want := range []string{"PRIVATE_KEY", "ETHERSACN_PRIVATE", "--settings", "--dotenv", "preflight", "networks"} {
		assert.Contains(t, out, want)
	}
}

func TestShowMasksSecrets(t *testing.T) {
	clearSecrets(t)
	t.Setenv("PRIVATE_KEY", "0xabc123")
	t.Setenv("ETHERSACN_PRIVATE", "key123")

	out, err := run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "0.8.20")
	assert.Contains(t, out, "ethers-v5")
	assert.NotContains(t, out, "0xabc123")
	assert.NotContains(t, out, "key123")

	out, err = run(t, "show", "--format", "json", "--reveal")
	require.NoError(t, err)
	assert.Contains(t, out, `"0xabc123"`)
	assert.Contains(t, out, `"apiKey": "key123"`)
}

func TestShowFailsWithoutSigningKey(t *testing.T) {
	clearSecrets(t)

	_, err := run(t, "show")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrMissingCredential))
}

func TestShowRejectsUnknownFormat(t *testing.T) {
	clearSecrets(t)
	t.Setenv("PRIVATE_KEY", "0x1")

	_, err := run(t, "show", "--format", "toml")
	require.Error(t, err)
}

func TestNetworksCommand(t *testing.T) {
	clearSecrets(t)
	t.Setenv("PRIVATE_KEY", "0x1")

	out, err := run(t, "networks")
	require.NoError(t, err)
	for _, want := range []string{"avalanche", "fuji", "hardhat", "(default)", "simulated", "Avalanche Fuji Testnet", "225 gwei", "#2975762"} {
		assert.Contains(t, out, want)
	}
}

func TestEnvCommandNeverPrintsValues(t *testing.T) {
	clearSecrets(t)
	t.Setenv("PRIVATE_KEY", "0xsupersecret")

	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "PRIVATE_KEY")
	assert.Contains(t, out, "ETHERSACN_PRIVATE")
	assert.Contains(t, out, "avalanche, fuji")
	assert.Contains(t, out, "unset")
	assert.NotContains(t, out, "0xsupersecret")
}

func TestEnvCommandWorksWithoutSecrets(t *testing.T) {
	clearSecrets(t)

	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "unset")
}

func TestVerboseLogsSettingsFile(t *testing.T) {
	clearSecrets(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: console\n"), 0o600))

	out, err := run(t, "--settings", path, "-v", "env")
	require.NoError(t, err)
	assert.Contains(t, out, "Runtime settings loaded")
	assert.Contains(t, out, path)
}

func TestPreflightUnknownNetwork(t *testing.T) {
	clearSecrets(t)
	t.Setenv("PRIVATE_KEY", "0x1")

	_, err := run(t, "preflight", "mainnet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mainnet")
}

func TestVerifiedRequiresNetwork(t *testing.T) {
	_, err := run(t, "verified", "0x0000000000000000000000000000000000000001")
	require.Error(t, err)
}
