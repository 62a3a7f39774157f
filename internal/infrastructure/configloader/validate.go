package configloader

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	"toolchain_config/internal/domain/entity"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New()
	})
	return structValidator
}

// validate runs tag validation, then the profile-kind rules, then the chain
// identity cross-check. All structural problems are returned together.
func (l *Loader) validate(cfg *entity.Config) error {
	var errs error

	if err := getValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate config: %w", err)
		}
		for _, fe := range verrs {
			errs = multierr.Append(errs, &entity.ValidationError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q validation (value %v)", fe.Tag(), fe.Value()),
			})
		}
	}

	var simulated, live int
	for _, name := range cfg.NetworkNames() {
		p := cfg.Networks[name]
		if p.Name != name {
			errs = multierr.Append(errs, invalid(fmt.Sprintf("networks.%s.name", name), "must equal the profile key"))
		}
		if p.Simulated {
			simulated++
			errs = multierr.Append(errs, validateSimulated(p))
			continue
		}
		live++
		errs = multierr.Append(errs, validateLive(p))
		errs = multierr.Append(errs, l.checkChainIdentity(p))
	}

	if simulated == 0 {
		errs = multierr.Append(errs, invalid("networks", fmt.Sprintf("a simulated %q profile is required", SimulatedNetworkName)))
	}
	if live == 0 {
		errs = multierr.Append(errs, invalid("networks", "at least one live profile is required"))
	}
	if _, ok := cfg.Networks[cfg.DefaultNetwork]; !ok {
		errs = multierr.Append(errs, invalid("defaultNetwork", fmt.Sprintf("unknown network %q", cfg.DefaultNetwork)))
	}
	return errs
}

func validateSimulated(p entity.NetworkProfile) error {
	var errs error
	field := "networks." + p.Name
	if p.RPCURL != "" {
		errs = multierr.Append(errs, invalid(field+".url", "must be empty for the simulated network"))
	}
	if len(p.CredentialRefs) > 0 {
		errs = multierr.Append(errs, invalid(field+".accounts", "the simulated network does not sign with external credentials"))
	}
	if p.Fork != nil && p.Fork.Enabled && !isHTTPURL(p.Fork.URL) {
		errs = multierr.Append(errs, invalid(field+".forking.url", "an http(s) URL is required when forking is enabled"))
	}
	return errs
}

func validateLive(p entity.NetworkProfile) error {
	var errs error
	field := "networks." + p.Name
	if !isRPCURL(p.RPCURL) {
		errs = multierr.Append(errs, invalid(field+".url", "a live network needs an http(s) or ws(s) RPC URL"))
	}
	if p.Fork != nil {
		errs = multierr.Append(errs, invalid(field+".forking", "only the simulated network can fork"))
	}
	return errs
}

// checkChainIdentity compares a live profile's chain ID with the known network
// served by its RPC host. Unknown hosts are not checked.
func (l *Loader) checkChainIdentity(p entity.NetworkProfile) error {
	if l.definitions == nil {
		return nil
	}
	def, ok := l.definitions.GetNetworkDefinitionByRPCURL(p.RPCURL)
	if !ok || def.ChainID == p.ChainID {
		return nil
	}
	return &entity.ChainIDMismatchError{
		Network:    p.Name,
		Configured: p.ChainID,
		Reported:   def.ChainID,
		Source:     "registry",
	}
}

// isRPCURL accepts JSON-RPC endpoints over HTTP or WebSocket.
func isRPCURL(raw string) bool {
	return hasScheme(raw, "http", "https", "ws", "wss")
}

// isHTTPURL accepts http(s) only; fork sources are fetched over HTTP.
func isHTTPURL(raw string) bool {
	return hasScheme(raw, "http", "https")
}

func hasScheme(raw string, schemes ...string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return slices.Contains(schemes, u.Scheme)
}

func invalid(field, msg string) error {
	return &entity.ValidationError{Field: field, Message: msg}
}
