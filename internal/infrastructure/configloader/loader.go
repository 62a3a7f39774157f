package configloader

import (
	"errors"
	"sort"

	"go.uber.org/multierr"

	"toolchain_config/internal/app/port"
	"toolchain_config/internal/domain/entity"
	networkdefinition "toolchain_config/internal/infrastructure/network/definition"
)

// Loader turns a configuration document plus an environment into an immutable Config.
type Loader struct {
	definitions port.NetworkDefinitionProvider
}

// NewLoader creates a Loader that cross-checks live chain IDs against definitions.
// A nil provider disables the cross-check.
func NewLoader(definitions port.NetworkDefinitionProvider) *Loader {
	return &Loader{definitions: definitions}
}

// LoadConfig builds the built-in toolchain configuration, resolving secrets via env.
// It reads nothing but env and never logs.
func LoadConfig(env port.EnvLookup) (*entity.Config, error) {
	return NewLoader(networkdefinition.NewNetworkDefinitionProvider(nil)).Load(defaultsDocument, env)
}

// LoadConfigFrom is LoadConfig over an alternative document.
func LoadConfigFrom(doc []byte, env port.EnvLookup) (*entity.Config, error) {
	return NewLoader(networkdefinition.NewNetworkDefinitionProvider(nil)).Load(doc, env)
}

// Load decodes data, validates it, and resolves every secret reference.
// Every missing live credential is reported, aggregated into one error.
func (l *Loader) Load(data []byte, env port.EnvLookup) (*entity.Config, error) {
	if env == nil {
		return nil, errors.New("env lookup must not be nil")
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	cfg := &entity.Config{
		Compiler:       entity.CompilerSettings{Version: doc.Solidity},
		DefaultNetwork: doc.DefaultNetwork,
		Networks:       make(map[string]entity.NetworkProfile, len(doc.Networks)),
		Bindings: entity.BindingSettings{
			OutDir: doc.Typechain.OutDir,
			Target: doc.Typechain.Target,
		},
		Verification: entity.VerificationSettings{
			APIKeyRef:     doc.Etherscan.APIKey.Env,
			MirrorEnabled: doc.Sourcify.Enabled,
		},
	}
	if cfg.DefaultNetwork == "" {
		cfg.DefaultNetwork = SimulatedNetworkName
	}

	var missing error
	for _, name := range sortedNames(doc.Networks) {
		profile, errs := buildProfile(name, doc.Networks[name], env)
		missing = multierr.Append(missing, errs)
		cfg.Networks[name] = profile
	}

	// A missing verification key is only fatal at verification time.
	if ref := cfg.Verification.APIKeyRef; ref != "" {
		cfg.Verification.APIKey, _ = lookupNonEmpty(env, ref)
	}

	if err := l.validate(cfg); err != nil {
		return nil, err
	}
	if missing != nil {
		return nil, missing
	}
	return cfg, nil
}

func buildProfile(name string, nd networkDoc, env port.EnvLookup) (entity.NetworkProfile, error) {
	profile := entity.NetworkProfile{
		Name:      name,
		RPCURL:    nd.URL,
		ChainID:   nd.ChainID,
		Simulated: name == SimulatedNetworkName,
	}
	if nd.GasPrice != nil {
		gp := *nd.GasPrice
		profile.GasPrice = &gp
	}
	if nd.Forking != nil {
		profile.Fork = &entity.ForkConfig{
			URL:     nd.Forking.URL,
			Enabled: nd.Forking.Enabled,
		}
		if nd.Forking.BlockNumber != nil {
			bn := *nd.Forking.BlockNumber
			profile.Fork.BlockNumber = &bn
		}
	}

	var errs error
	for _, ref := range nd.Accounts {
		profile.CredentialRefs = append(profile.CredentialRefs, ref.Env)
		value, ok := lookupNonEmpty(env, ref.Env)
		if !ok {
			errs = multierr.Append(errs, &entity.MissingCredentialError{Network: name, EnvVar: ref.Env})
		}
		profile.Credentials = append(profile.Credentials, value)
	}
	return profile, errs
}

// lookupNonEmpty treats a variable set to the empty string as absent.
func lookupNonEmpty(env port.EnvLookup, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	v, ok := env(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func sortedNames(networks map[string]networkDoc) []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MissingCredentialNetworks lists, in order, the networks named by every
// MissingCredentialError inside err.
func MissingCredentialNetworks(err error) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, e := range multierr.Errors(err) {
		var mc *entity.MissingCredentialError
		if !errors.As(e, &mc) {
			continue
		}
		if _, dup := seen[mc.Network]; dup {
			continue
		}
		seen[mc.Network] = struct{}{}
		names = append(names, mc.Network)
	}
	return names
}

// RequiredVariables returns every environment variable the document references,
// with the networks or services that need it.
func RequiredVariables(data []byte) (map[string][]string, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	vars := make(map[string][]string)
	for _, name := range sortedNames(doc.Networks) {
		for _, ref := range doc.Networks[name].Accounts {
			vars[ref.Env] = append(vars[ref.Env], name)
		}
	}
	if ref := doc.Etherscan.APIKey.Env; ref != "" {
		vars[ref] = append(vars[ref], "verification")
	}
	return vars, nil
}
