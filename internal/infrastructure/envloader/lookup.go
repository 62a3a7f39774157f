package envloader

import (
	"os"

	"toolchain_config/internal/app/port"
)

// OS returns a lookup over the process environment.
func OS() port.EnvLookup {
	return os.LookupEnv
}

// Map returns a lookup over a fixed set of variables. The map is copied.
func Map(vars map[string]string) port.EnvLookup {
	snapshot := make(map[string]string, len(vars))
	for k, v := range vars {
		snapshot[k] = v
	}
	return func(key string) (string, bool) {
		v, ok := snapshot[key]
		return v, ok
	}
}

// Chain returns a lookup that consults each source in order and returns the
// first hit. Nil sources are skipped.
func Chain(sources ...port.EnvLookup) port.EnvLookup {
	return func(key string) (string, bool) {
		for _, src := range sources {
			if src == nil {
				continue
			}
			if v, ok := src(key); ok {
				return v, true
			}
		}
		return "", false
	}
}
