package builder

import (
	"context"
	"fmt"
	"os"

	"github.com/qobs-build/cork/internal/manifest"
	"github.com/qobs-build/cork/internal/msg"
	"github.com/qobs-build/cork/internal/profile"
)

// ObjectSet is the result of compiling one scope (a dependency or the root project)
type ObjectSet struct {
	// Objects holds every object of the scope, fresh or rebuilt, in source order.
	Objects []string
	// Compiled counts the objects rebuilt during this call.
	Compiled int
}

// DependencyOutput is what a built dependency contributes to its dependent
type DependencyOutput struct {
	ObjectSet
	Name       string
	Dir        string
	IncludeDir string // public headers, added to the dependent's include path
}

// BuildDependency compiles the stale sources of one declared dependency. The dependency
// only sees its own public headers, both on the include path and for staleness.
// Every failure is returned as a *DependencyError.
func (b *Builder) BuildDependency(ctx context.Context, dep manifest.NamedDependency, p profile.Profile) (*DependencyOutput, error) {
	dir := dep.ResolvePath(b.basedir)
	fail := func(err error) (*DependencyOutput, error) {
		return nil, &DependencyError{Name: dep.Name, Path: dir, Err: err}
	}

	depCfg, err := manifest.LoadDir(dir)
	if err != nil {
		return fail(err)
	}
	if depCfg.Project.Name != dep.Name {
		msg.Warn("dependency %q has a mismatched project name: %q", dep.Name, depCfg.Project.Name)
	}
	if len(depCfg.Dependencies) > 0 {
		msg.Warn("dependency %q declares its own dependencies; they are not built", dep.Name)
	}

	layout := NewLayout(dir)
	objDir := layout.ObjDir(p)
	if err := os.MkdirAll(objDir, 0755); err != nil {
		return fail(fmt.Errorf("failed to create object directory: %w", err))
	}

	sources, err := collectFiles(layout.Src(), SourceExt)
	if err != nil {
		return fail(&SourceDiscoveryError{Dir: layout.Src(), Err: err})
	}
	headers, err := collectFiles(layout.Include(), HeaderExt)
	if err != nil {
		return fail(&SourceDiscoveryError{Dir: layout.Include(), Err: err})
	}

	out := &DependencyOutput{Name: dep.Name, Dir: dir, IncludeDir: layout.Include()}
	targets := newTargets(sources, objDir, []string{layout.Include()})
	set, err := b.compileTargets(ctx, targets, headers, p)
	if err != nil {
		return fail(err)
	}
	out.ObjectSet = set
	return out, nil
}

// compileTargets compiles every stale target in order and stops at the first failure
func (b *Builder) compileTargets(ctx context.Context, targets []BuildTarget, watched []string, p profile.Profile) (ObjectSet, error) {
	set := ObjectSet{Objects: make([]string, 0, len(targets))}
	for _, t := range targets {
		verdict, reason := evaluate(t.Source, t.Object, watched)
		if verdict == FreshEnough {
			msg.Debug("fresh: %s", b.rel(t.Source))
		} else {
			msg.Debug("stale: %s (%s)", b.rel(t.Source), reason)
			msg.Status("Compiling", "%s", b.rel(t.Source))
			if err := b.tc.Compile(ctx, t.Source, t.Object, t.IncludeDirs, p); err != nil {
				return set, err
			}
			set.Compiled++
		}
		set.Objects = append(set.Objects, t.Object)
	}
	return set, nil
}
