package port

import "toolchain_config/internal/domain/entity"

// EnvLookup resolves a variable from some environment source.
// It has the same shape as os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// ConfigProvider defines the interface for accessing the loaded toolchain configuration.
type ConfigProvider interface {
	// GetConfig returns a copy of the configuration; callers may not mutate shared state.
	GetConfig() *entity.Config
	// GetRedactedConfig returns a copy with every resolved secret removed.
	GetRedactedConfig() *entity.Config
}
