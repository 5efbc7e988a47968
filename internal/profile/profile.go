package profile

import (
	"fmt"
	"strings"
)

// Profile selects the build variant: output subdirectory and optimization.
type Profile int

const (
	Debug Profile = iota
	Release
)

var names = map[Profile]string{
	Debug:   "debug",
	Release: "release",
}

// Names returns the accepted profile names
func Names() []string {
	return []string{names[Debug], names[Release]}
}

// Parse converts a profile name ("debug" or "release") into a Profile
func Parse(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "":
		return Debug, nil
	case "release":
		return Release, nil
	}
	return Debug, fmt.Errorf("unknown profile %q, known profiles: %s", s, strings.Join(Names(), ", "))
}

func (p Profile) String() string {
	if name, ok := names[p]; ok {
		return name
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// Dir is the name of the output subdirectory under build/
func (p Profile) Dir() string { return p.String() }

// Optimized reports whether the toolchain should receive an optimization flag
func (p Profile) Optimized() bool { return p == Release }

// Describe is the short label printed after a build, e.g. "release [optimized]"
func (p Profile) Describe() string {
	if p.Optimized() {
		return p.String() + " [optimized]"
	}
	return p.String() + " [unoptimized]"
}
