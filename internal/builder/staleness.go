package builder

import (
	"errors"
	"io/fs"
	"os"
)

// Verdict is the outcome of a staleness check for one compilation unit
type Verdict int

const (
	FreshEnough Verdict = iota
	MustRecompile
)

func (v Verdict) String() string {
	if v == MustRecompile {
		return "stale"
	}
	return "fresh"
}

// IsStale decides whether object must be rebuilt from source.
//
// Every header in watchedHeaders counts, whether or not the source includes it:
// touching any header visible to a unit recompiles that unit. Timestamps are
// compared with a strict "newer than", so equal times are fresh. Unreadable
// metadata always means MustRecompile.
func IsStale(source, object string, watchedHeaders []string) Verdict {
	v, _ := evaluate(source, object, watchedHeaders)
	return v
}

// evaluate is IsStale plus a short reason for verbose output
func evaluate(source, object string, watchedHeaders []string) (Verdict, string) {
	objInfo, err := os.Stat(object)
	if errors.Is(err, fs.ErrNotExist) {
		return MustRecompile, "no object file"
	}
	if err != nil {
		return MustRecompile, "cannot stat object: " + err.Error()
	}
	objTime := objInfo.ModTime()

	srcInfo, err := os.Stat(source)
	if err != nil {
		return MustRecompile, "cannot stat source: " + err.Error()
	}
	if srcInfo.ModTime().After(objTime) {
		return MustRecompile, "source changed"
	}

	for _, header := range watchedHeaders {
		hInfo, err := os.Stat(header)
		if err != nil {
			return MustRecompile, "cannot stat header " + header + ": " + err.Error()
		}
		if hInfo.ModTime().After(objTime) {
			return MustRecompile, "header changed: " + header
		}
	}

	return FreshEnough, ""
}
