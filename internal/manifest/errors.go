package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// ConfigError is returned when a manifest is missing or malformed.
type ConfigError struct {
	Path string // manifest path
	Dir  string // directory the manifest was expected in
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Missing() {
		return fmt.Sprintf("could not find `%s` in `%s`", filepath.Base(e.Path), e.Dir)
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Missing reports whether the manifest file does not exist
func (e *ConfigError) Missing() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}
