package configloader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"toolchain_config/internal/domain/entity"
	"toolchain_config/internal/infrastructure/envloader"
)

func fullEnv() map[string]string {
	return map[string]string{
		"PRIVATE_KEY":       "0xabc123",
		"ETHERSACN_PRIVATE": "key123",
	}
}

func TestLoadConfigAllSecretsPresent(t *testing.T) {
	cfg, err := LoadConfig(envloader.Map(fullEnv()))
	require.NoError(t, err)

	assert.Equal(t, "0.8.20", cfg.Compiler.Version)
	assert.Equal(t, "hardhat", cfg.DefaultNetwork)
	require.Len(t, cfg.Networks, 3)

	hardhat := cfg.Networks["hardhat"]
	assert.True(t, hardhat.Simulated)
	assert.Empty(t, hardhat.RPCURL)
	assert.Equal(t, uint64(43114), hardhat.ChainID)
	require.NotNil(t, hardhat.GasPrice)
	assert.Equal(t, uint64(225000000000), *hardhat.GasPrice)
	require.NotNil(t, hardhat.Fork)
	assert.Equal(t, "https://api.avax.network/ext/bc/C/rpc", hardhat.Fork.URL)
	assert.True(t, hardhat.Fork.Enabled)
	require.NotNil(t, hardhat.Fork.BlockNumber)
	assert.Equal(t, uint64(2975762), *hardhat.Fork.BlockNumber)
	assert.Empty(t, hardhat.Credentials)

	fuji := cfg.Networks["fuji"]
	assert.False(t, fuji.Simulated)
	assert.Equal(t, "https://api.avax-test.network/ext/C/rpc", fuji.RPCURL)
	assert.Equal(t, uint64(43113), fuji.ChainID)
	assert.Equal(t, []string{"PRIVATE_KEY"}, fuji.CredentialRefs)
	assert.Equal(t, []string{"0xabc123"}, fuji.Credentials)
	assert.Nil(t, fuji.GasPrice)
	assert.Nil(t, fuji.Fork)

	avalanche := cfg.Networks["avalanche"]
	assert.Equal(t, "https://api.avax.network/ext/bc/C/rpc", avalanche.RPCURL)
	assert.Equal(t, uint64(43114), avalanche.ChainID)
	assert.Equal(t, []string{"0xabc123"}, avalanche.Credentials)

	assert.Equal(t, "typechain", cfg.Bindings.OutDir)
	assert.Equal(t, "ethers-v5", cfg.Bindings.Target)
	assert.Equal(t, "key123", cfg.Verification.APIKey)
	assert.Equal(t, "ETHERSACN_PRIVATE", cfg.Verification.APIKeyRef)
	assert.True(t, cfg.Verification.MirrorEnabled)
}

func TestLoadConfigScenarioFromEnvironment(t *testing.T) {
	cfg, err := LoadConfig(envloader.Map(map[string]string{
		"PRIVATE_KEY":       "0xabc...",
		"ETHERSACN_PRIVATE": "key123",
	}))
	require.NoError(t, err)
	assert.Equal(t, "0xabc...", cfg.Networks["fuji"].Credentials[0])
	assert.Equal(t, "key123", cfg.Verification.APIKey)
}

func TestLoadConfigMissingSigningKey(t *testing.T) {
	cfg, err := LoadConfig(envloader.Map(map[string]string{"ETHERSACN_PRIVATE": "key123"}))
	require.Error(t, err)
	assert.Nil(t, cfg)

	assert.True(t, errors.Is(err, entity.ErrMissingCredential))
	assert.ElementsMatch(t, []string{"fuji", "avalanche"}, MissingCredentialNetworks(err))

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	for _, e := range errs {
		var mc *entity.MissingCredentialError
		require.True(t, errors.As(e, &mc))
		assert.Equal(t, "PRIVATE_KEY", mc.EnvVar)
	}
}

func TestLoadConfigEmptyEnvironmentReportsBothNetworks(t *testing.T) {
	_, err := LoadConfig(envloader.Map(nil))
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"fuji", "avalanche"}, MissingCredentialNetworks(err))
	assert.Contains(t, err.Error(), `"fuji"`)
	assert.Contains(t, err.Error(), `"avalanche"`)
	// The verification key is never reported as a missing credential.
	assert.NotContains(t, err.Error(), "ETHERSACN_PRIVATE")
}

func TestLoadConfigEmptyValueCountsAsMissing(t *testing.T) {
	_, err := LoadConfig(envloader.Map(map[string]string{"PRIVATE_KEY": ""}))
	require.Error(t, err)
	assert.Len(t, MissingCredentialNetworks(err), 2)
}

func TestLoadConfigMissingVerificationKeyIsNotFatal(t *testing.T) {
	cfg, err := LoadConfig(envloader.Map(map[string]string{"PRIVATE_KEY": "0xabc"}))
	require.NoError(t, err)
	assert.Empty(t, cfg.Verification.APIKey)
	assert.False(t, cfg.Verification.HasAPIKey())
	assert.Equal(t, "ETHERSACN_PRIVATE", cfg.Verification.APIKeyRef)
}

func TestLoadConfigIsIdempotent(t *testing.T) {
	env := envloader.Map(fullEnv())
	first, err := LoadConfig(env)
	require.NoError(t, err)
	second, err := LoadConfig(env)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// Distinct values, not a shared pointer.
	assert.NotSame(t, first, second)
}

func TestLoadConfigRejectsNilLookup(t *testing.T) {
	_, err := LoadConfig(nil)
	require.Error(t, err)
}

func TestSimulatedProfileLoadsWithoutSecrets(t *testing.T) {
	doc := `
solidity: "0.8.20"
networks:
  hardhat:
    chainId: 31337
  localnet:
    url: http://127.0.0.1:9650/ext/bc/C/rpc
    chainId: 43112
typechain:
  outDir: types
  target: ethers-v6
`
	cfg, err := LoadConfigFrom([]byte(doc), envloader.Map(nil))
	require.NoError(t, err)
	assert.True(t, cfg.Networks["hardhat"].Simulated)
	assert.Equal(t, "hardhat", cfg.DefaultNetwork)
	assert.False(t, cfg.Verification.MirrorEnabled)
	assert.Empty(t, cfg.Verification.APIKeyRef)
}

func TestLiveNetworkAcceptsWebSocketURL(t *testing.T) {
	doc := `
solidity: "0.8.20"
networks:
  hardhat:
    chainId: 31337
  localnet:
    url: ws://127.0.0.1:9650/ext/bc/C/ws
    chainId: 43112
typechain:
  outDir: types
  target: ethers-v5
`
	cfg, err := LoadConfigFrom([]byte(doc), envloader.Map(nil))
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:9650/ext/bc/C/ws", cfg.Networks["localnet"].RPCURL)
}

func TestLoadConfigFromRejectsUnknownFields(t *testing.T) {
	doc := strings.Replace(string(DefaultsDocument()), "typechain:\n", "typechain:\n  dontKnow: 1\n", 1)
	_, err := LoadConfigFrom([]byte(doc), envloader.Map(fullEnv()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dontKnow")
}

func TestLoadConfigFromRejectsMultipleDocuments(t *testing.T) {
	doc := string(DefaultsDocument()) + "\n---\nsolidity: \"0.8.21\"\n"
	_, err := LoadConfigFrom([]byte(doc), envloader.Map(fullEnv()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single YAML document")
}

func TestLoadConfigFromRejectsEmptyDocument(t *testing.T) {
	_, err := LoadConfigFrom(nil, envloader.Map(fullEnv()))
	require.Error(t, err)
}

func TestLoadConfigFromDetectsChainIDMismatch(t *testing.T) {
	doc := strings.Replace(string(DefaultsDocument()), "chainId: 43113", "chainId: 43114", 1)
	_, err := LoadConfigFrom([]byte(doc), envloader.Map(fullEnv()))
	require.Error(t, err)

	var mismatch *entity.ChainIDMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "fuji", mismatch.Network)
	assert.Equal(t, uint64(43114), mismatch.Configured)
	assert.Equal(t, uint64(43113), mismatch.Reported)
	assert.True(t, errors.Is(err, entity.ErrChainIDMismatch))
}

func TestLoaderWithoutDefinitionsSkipsIdentityCheck(t *testing.T) {
	doc := strings.Replace(string(DefaultsDocument()), "chainId: 43113", "chainId: 43114", 1)
	cfg, err := NewLoader(nil).Load([]byte(doc), envloader.Map(fullEnv()))
	require.NoError(t, err)
	assert.Equal(t, uint64(43114), cfg.Networks["fuji"].ChainID)
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name: "live network without url",
			doc: `
solidity: "0.8.20"
networks:
  hardhat: {chainId: 31337}
  fuji: {chainId: 43113}
typechain: {outDir: typechain, target: ethers-v5}
`,
			wantMsg: "networks.fuji.url",
		},
		{
			name: "bad compiler version",
			doc: `
solidity: "latest"
networks:
  hardhat: {chainId: 31337}
  fuji: {url: "https://api.avax-test.network/ext/C/rpc", chainId: 43113}
typechain: {outDir: typechain, target: ethers-v5}
`,
			wantMsg: "semver",
		},
		{
			name: "unsupported binding target",
			doc: `
solidity: "0.8.20"
networks:
  hardhat: {chainId: 31337}
  fuji: {url: "https://api.avax-test.network/ext/C/rpc", chainId: 43113}
typechain: {outDir: typechain, target: ethers-v4}
`,
			wantMsg: "oneof",
		},
		{
			name: "simulated network missing",
			doc: `
solidity: "0.8.20"
networks:
  fuji: {url: "https://api.avax-test.network/ext/C/rpc", chainId: 43113}
typechain: {outDir: typechain, target: ethers-v5}
defaultNetwork: fuji
`,
			wantMsg: "simulated",
		},
		{
			name: "simulated network with accounts",
			doc: `
solidity: "0.8.20"
networks:
  hardhat:
    chainId: 31337
    accounts: [{env: PRIVATE_KEY}]
  fuji: {url: "https://api.avax-test.network/ext/C/rpc", chainId: 43113}
typechain: {outDir: typechain, target: ethers-v5}
`,
			wantMsg: "networks.hardhat.accounts",
		},
		{
			name: "fork enabled without url",
			doc: `
solidity: "0.8.20"
networks:
  hardhat:
    chainId: 31337
    forking: {enabled: true}
  fuji: {url: "https://api.avax-test.network/ext/C/rpc", chainId: 43113}
typechain: {outDir: typechain, target: ethers-v5}
`,
			wantMsg: "forking.url",
		},
		{
			name: "fork over websocket",
			doc: `
solidity: "0.8.20"
networks:
  hardhat:
    chainId: 31337
    forking: {enabled: true, url: "wss://api.avax.network/ext/bc/C/ws"}
  fuji: {url: "https://api.avax-test.network/ext/C/rpc", chainId: 43113}
typechain: {outDir: typechain, target: ethers-v5}
`,
			wantMsg: "forking.url",
		},
		{
			name: "live network with unsupported scheme",
			doc: `
solidity: "0.8.20"
networks:
  hardhat: {chainId: 31337}
  fuji: {url: "ftp://api.avax-test.network/ext/C/rpc", chainId: 43113}
typechain: {outDir: typechain, target: ethers-v5}
`,
			wantMsg: "networks.fuji.url",
		},
		{
			name: "zero chain id",
			doc: `
solidity: "0.8.20"
networks:
  hardhat: {chainId: 0}
  fuji: {url: "https://api.avax-test.network/ext/C/rpc", chainId: 43113}
typechain: {outDir: typechain, target: ethers-v5}
`,
			wantMsg: "ChainID",
		},
		{
			name: "unknown default network",
			doc: `
solidity: "0.8.20"
defaultNetwork: mainnet
networks:
  hardhat: {chainId: 31337}
  fuji: {url: "https://api.avax-test.network/ext/C/rpc", chainId: 43113}
typechain: {outDir: typechain, target: ethers-v5}
`,
			wantMsg: "defaultNetwork",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFrom([]byte(tt.doc), envloader.Map(fullEnv()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var verr *entity.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestValidationErrorTakesPrecedenceOverMissingCredential(t *testing.T) {
	doc := strings.Replace(string(DefaultsDocument()), `solidity: "0.8.20"`, `solidity: "x"`, 1)
	_, err := LoadConfigFrom([]byte(doc), envloader.Map(nil))
	require.Error(t, err)
	assert.False(t, errors.Is(err, entity.ErrMissingCredential))
}

func TestRequiredVariables(t *testing.T) {
	vars, err := RequiredVariables(DefaultsDocument())
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"PRIVATE_KEY":       {"avalanche", "fuji"},
		"ETHERSACN_PRIVATE": {"verification"},
	}, vars)
}

func TestDefaultsDocumentIsCopied(t *testing.T) {
	doc := DefaultsDocument()
	doc[0] = 'X'
	assert.NotEqual(t, doc[0], DefaultsDocument()[0])
}
