package envloader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/subosito/gotenv"

	"toolchain_config/internal/app/port"
)

const DefaultDotenvPath = ".env"

// DotenvFile holds variables parsed from a dotenv file.
type DotenvFile struct {
	filePath string
	values   map[string]string
}

// LoadDotenvFile reads KEY=VALUE pairs from path. A missing file is not an
// error and yields an empty set, the same as running without a .env file.
func LoadDotenvFile(path string) (*DotenvFile, error) {
	if path == "" {
		path = DefaultDotenvPath
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &DotenvFile{filePath: path, values: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to open dotenv file %s: %w", path, err)
	}
	defer file.Close()

	values, err := ParseDotenv(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dotenv file %s: %w", path, err)
	}
	return &DotenvFile{filePath: path, values: values}, nil
}

// ParseDotenv parses dotenv syntax with gotenv: comments, "export " prefixes,
// quoted values followed by inline comments and ${VAR} references are
// handled. Nothing is written to the process environment.
func ParseDotenv(r io.Reader) (map[string]string, error) {
	env, err := gotenv.StrictParse(r)
	if err != nil {
		return nil, fmt.Errorf("invalid dotenv input: %w", err)
	}
	return env, nil
}

// Path returns the file the values were read from.
func (f *DotenvFile) Path() string {
	return f.filePath
}

// Len returns the number of parsed variables.
func (f *DotenvFile) Len() int {
	return len(f.values)
}

// Lookup implements port.EnvLookup over the file contents only.
func (f *DotenvFile) Lookup(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Layered returns a lookup where primary wins and the dotenv file fills gaps.
// dotenv never overrides variables already present in the process environment.
func (f *DotenvFile) Layered(primary port.EnvLookup) port.EnvLookup {
	return Chain(primary, f.Lookup)
}
