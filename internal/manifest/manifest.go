package manifest

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// Filename is the manifest expected at the root of every project and dependency
const Filename = "Cork.toml"

// Manifest is the declared identity of a project. It is not modified after Load.
type Manifest struct {
	Project      ProjectSection        `toml:"project"`
	Dependencies map[string]Dependency `toml:"dependencies"`
}

// ProjectSection defines the [project] section
type ProjectSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Dependency references a sibling project on the local filesystem
type Dependency struct {
	Path string `toml:"path"`
}

// NamedDependency pairs a dependency with the key it was declared under
type NamedDependency struct {
	Name string
	Dependency
}

// SortedDependencies returns the dependencies ordered by name, which fixes
// both the build log order and the link order.
func (m *Manifest) SortedDependencies() []NamedDependency {
	deps := make([]NamedDependency, 0, len(m.Dependencies))
	for name, dep := range m.Dependencies {
		deps = append(deps, NamedDependency{Name: name, Dependency: dep})
	}
	slices.SortFunc(deps, func(a, b NamedDependency) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return deps
}

// ResolvePath returns the dependency directory, relative paths being
// resolved against the declaring project's directory.
func (d Dependency) ResolvePath(projectDir string) string {
	if filepath.IsAbs(d.Path) {
		return filepath.Clean(d.Path)
	}
	return filepath.Join(projectDir, d.Path)
}

// unmarshalSection is a helper to decode one top-level table into dst
func unmarshalSection(raw map[string]any, name string, dst any) (bool, error) {
	data, ok := raw[name]
	if !ok {
		return false, nil
	}
	if _, isTable := data.(map[string]any); !isTable {
		return true, fmt.Errorf("invalid [%s] section format: expected a table", name)
	}
	b, err := toml.Marshal(data)
	if err != nil {
		return true, fmt.Errorf("failed to re-encode [%s] section: %w", name, err)
	}
	if err := toml.Unmarshal(b, dst); err != nil {
		return true, fmt.Errorf("failed to parse [%s] section: %w", name, err)
	}
	return true, nil
}

func (m *Manifest) validate() error {
	if m.Project.Name == "" {
		return errors.New("missing required field project.name")
	}
	if m.Project.Version == "" {
		return errors.New("missing required field project.version")
	}
	for name, dep := range m.Dependencies {
		if name == "" {
			return errors.New("dependency with an empty name")
		}
		if dep.Path == "" {
			return fmt.Errorf("dependency %q: missing required field path", name)
		}
	}
	return nil
}

// Parse decodes and validates a manifest. Errors are plain; Load wraps them in a ConfigError.
func Parse(rdr io.Reader, env ConfigEnv) (*Manifest, error) {
	var raw map[string]any
	dec := toml.NewDecoder(rdr)
	if err := dec.Decode(&raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}

	processed, err := processExpressions(raw, env)
	if err != nil {
		return nil, fmt.Errorf("error processing expressions in manifest: %w", err)
	}
	raw, _ = processed.(map[string]any)

	m := new(Manifest)
	found, err := unmarshalSection(raw, "project", &m.Project)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("missing required [project] section")
	}
	if _, err := unmarshalSection(raw, "dependencies", &m.Dependencies); err != nil {
		return nil, err
	}
	if m.Dependencies == nil {
		m.Dependencies = map[string]Dependency{}
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads the manifest at path. Any failure, including a missing file, is a *ConfigError.
func Load(path string, env ConfigEnv) (*Manifest, error) {
	dir := filepath.Dir(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Dir: dir, Err: err}
	}
	defer f.Close()

	m, err := Parse(bufio.NewReader(f), env)
	if err != nil {
		return nil, &ConfigError{Path: path, Dir: dir, Err: err}
	}
	return m, nil
}

// LoadDir loads the manifest at the root of a project directory
func LoadDir(dir string) (*Manifest, error) {
	return Load(filepath.Join(dir, Filename), NewConfigEnv())
}

// Exists reports whether dir contains a manifest file
func Exists(dir string) bool {
	stat, err := os.Stat(filepath.Join(dir, Filename))
	return err == nil && !stat.IsDir()
}
