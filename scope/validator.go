// Copyright © 2024 The ELPS authors

package scope

import (
	"sort"

	"github.com/stbscript/bsc/diagnostic"
	"github.com/stbscript/bsc/scopetypes"
)

// Validate runs the fixed validation pipeline. If the scope is already
// valid and force is false, it returns immediately. Re-entry while
// validating is a no-op: the state-machine guard makes a recursive call
// (e.g. from a misbehaving plugin) return without re-running the
// pipeline.
func (s *Scope) Validate(force bool) {
	s.mu.Lock()
	switch s.state {
	case stateValid:
		if !force {
			s.mu.Unlock()
			return
		}
		s.state = stateValidating
	case stateValidating:
		// Re-entry while validating is a no-op: a plugin or a
		// collaborator recursively triggering validation of the scope
		// currently validating must not restart the pipeline.
		s.mu.Unlock()
		return
	default:
		s.state = stateValidating
	}
	s.mu.Unlock()

	s.logger.Time(LevelDebug, "validate", []Label{{Key: "scope", Value: s.name}}, func() {
		diags := s.runPipeline(force)
		s.finishValidating(diags)
	})
}

func (s *Scope) runPipeline(force bool) []diagnostic.Diagnostic {
	// Step 2: parent validates first, with the same force flag.
	if parent, ok := s.GetParentScope(); ok && !parent.IsValidated() {
		parent.Validate(force)
	}

	var diags []diagnostic.Diagnostic

	// Step 4-5: sort callables, build the lowercase-name -> containers map.
	containers := s.sortedAllCallables()
	containerMap := groupByLowerName(containers)

	// Step 6: before-validate plugin hook.
	ownFiles := s.GetOwnFiles()
	s.plugins.Emit(BeforeScopeValidate, s, ownFiles, containerMap)

	// Step 7.
	diags = append(diags, s.diagnosticFindDuplicateFunctionDeclarations(containerMap)...)

	// Step 8.
	diags = append(diags, s.diagnosticValidateScriptImportPaths()...)

	// Step 9.
	if s.classValidator != nil {
		s.classValidator.Validate(s)
		diags = append(diags, s.classValidator.Diagnostics()...)
	}

	// Step 10: per own, non-typedef file checks (a)-(e).
	nsLookup := s.BuildNamespaceLookup()
	s.EnumerateOwnFiles(func(f scopetypes.BscFile) {
		diags = append(diags, s.diagnosticDetectCallsToUnknownFunctions(f)...)
		diags = append(diags, s.diagnosticDetectCallsWithWrongArgCount(f)...)
		diags = append(diags, s.diagnosticDetectLocalVarShadowing(f)...)
		diags = append(diags, s.diagnosticDetectFunctionCollisions(f)...)
		diags = append(diags, s.diagnosticDetectNamespaceNameCollisions(f, nsLookup)...)
	})

	// Step 11: after-validate plugin hook.
	s.plugins.Emit(AfterScopeValidate, s, ownFiles, containerMap)

	return diags
}

// sortedAllCallables computes getAllCallables() and sorts it primarily
// by declaring file's absolute path and secondarily by callable name,
// both lexicographic — the seed for deterministic diagnostic emission.
func (s *Scope) sortedAllCallables() []*scopetypes.CallableContainer {
	containers := append([]*scopetypes.CallableContainer(nil), s.GetAllCallables()...)
	sort.SliceStable(containers, func(i, j int) bool {
		fi, fj := containers[i].Callable.File, containers[j].Callable.File
		pi, pj := "", ""
		if fi != nil {
			pi = fi.PathAbsolute()
		}
		if fj != nil {
			pj = fj.PathAbsolute()
		}
		if pi != pj {
			return pi < pj
		}
		return containers[i].Callable.Name < containers[j].Callable.Name
	})
	return containers
}

func groupByLowerName(containers []*scopetypes.CallableContainer) map[string][]*scopetypes.CallableContainer {
	out := make(map[string][]*scopetypes.CallableContainer)
	for _, c := range containers {
		name := c.Callable.LowerName
		out[name] = append(out[name], c)
	}
	return out
}

// diagnosticFindDuplicateFunctionDeclarations works per lowercase name:
// each own callable that shadows a non-global ancestor's (other than
// init) gets an override diagnostic, and when this scope's own files
// declare the name more than once, each of those declarations gets a
// duplicate diagnostic. Global-scope containers are skipped.
func (s *Scope) diagnosticFindDuplicateFunctionDeclarations(containerMap map[string][]*scopetypes.CallableContainer) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	names := make([]string, 0, len(containerMap))
	for name := range containerMap {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		containers := containerMap[name]

		var own, nonGlobalAncestor []*scopetypes.CallableContainer
		for _, c := range containers {
			switch {
			case c.Scope.Name() == GlobalScopeName:
				// Global-scope callables never participate in override
				// or duplicate detection; they're the built-in floor
				// every scope inherits, not a collision candidate.
			case c.Scope.Name() == s.name:
				own = append(own, c)
			default:
				nonGlobalAncestor = append(nonGlobalAncestor, c)
			}
		}

		if len(own) >= 1 && len(nonGlobalAncestor) >= 1 && name != "init" {
			deepest := nonGlobalAncestor[len(nonGlobalAncestor)-1]
			for _, c := range own {
				if c.Callable.File != nil && deepest.Callable.File != nil &&
					c.Callable.File.PkgPath() == deepest.Callable.File.PkgPath() {
					continue
				}
				d := diagnostic.OverridesAncestorFunction(c.Callable.Name, deepest.Scope.Name())
				d.File = fileNameOf(c.Callable.File)
				d.Range = c.Callable.NameRange
				diags = append(diags, d)
			}
		}

		if len(own) >= 2 {
			for _, c := range own {
				d := diagnostic.DuplicateFunctionImplementation(c.Callable.Name, s.name)
				d.File = fileNameOf(c.Callable.File)
				d.Range = c.Callable.NameRange
				diags = append(diags, d)
			}
		}
	}

	return diags
}

func fileNameOf(f scopetypes.BscFile) string {
	if f == nil {
		return ""
	}
	return f.PkgPath()
}
