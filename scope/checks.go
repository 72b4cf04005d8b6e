// Copyright © 2024 The ELPS authors

package scope

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stbscript/bsc/cache"
	"github.com/stbscript/bsc/diagnostic"
	"github.com/stbscript/bsc/scopetypes"
)

// diagnosticValidateScriptImportPaths flags a blank script src, one that
// resolves to no known file, and one whose case doesn't match the
// referenced file's actual pkgPath.
func (s *Scope) diagnosticValidateScriptImportPaths() []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	byPkgPath := s.ownAndAncestorFilesByLowerPkgPath()

	s.EnumerateOwnFiles(func(f scopetypes.BscFile) {
		imports := append(append([]scopetypes.ScriptImport(nil), f.OwnScriptImports()...), f.ScriptTagImports()...)
		for _, imp := range imports {
			text := strings.TrimSpace(imp.Text)
			if text == "" {
				d := diagnostic.ScriptSrcCannotBeEmpty()
				d.File = f.PkgPath()
				d.Range = imp.Range
				diags = append(diags, d)
				continue
			}
			target, ok := byPkgPath[strings.ToLower(text)]
			if !ok {
				d := diagnostic.ReferencedFileDoesNotExist(text)
				d.File = f.PkgPath()
				d.Range = imp.Range
				diags = append(diags, d)
				continue
			}
			if target.PkgPath() != text {
				d := diagnostic.ScriptImportCaseMismatch(target.PkgPath())
				d.File = f.PkgPath()
				d.Range = imp.Range
				diags = append(diags, d)
			}
		}
	})

	return diags
}

// ownAndAncestorFilesByLowerPkgPath resolves script imports against
// every file reachable from the scope, keyed by lowercase pkgPath so
// resolution is case-insensitive; the diagnostic itself then compares
// against the canonical (correctly cased) pkgPath to detect a mismatch.
func (s *Scope) ownAndAncestorFilesByLowerPkgPath() map[string]scopetypes.BscFile {
	return cache.GetOrAddTyped(s.cache, "filesByLowerPkgPath", func() map[string]scopetypes.BscFile {
		out := make(map[string]scopetypes.BscFile)
		s.EnumerateAllFiles(func(f scopetypes.BscFile) {
			if _, exists := out[f.LowerPkgPath()]; !exists {
				out[f.LowerPkgPath()] = f
			}
		})
		return out
	})
}

// diagnosticDetectCallsToUnknownFunctions flags a call whose name
// resolves to neither a local variable, a scoped callable, nor a
// builtin.
func (s *Scope) diagnosticDetectCallsToUnknownFunctions(f scopetypes.BscFile) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	isBs := strings.ToLower(strings.TrimPrefix(f.Extension(), ".")) == "bs"

	for _, call := range f.FunctionCalls() {
		if isBs && call.LowerName == "super" {
			continue
		}
		if enclosing := findEnclosingFunctionScope(f, call.Range.Start); enclosing != nil {
			if hasLocalVar(enclosing, call.LowerName) {
				continue
			}
		}
		if s.builtins.IsBuiltin(call.LowerName) {
			continue
		}
		if _, ok := s.GetCallableByName(call.Name); ok {
			continue
		}
		d := diagnostic.CallToUnknownFunction(call.Name, s.name)
		d.File = f.PkgPath()
		d.Range = call.NameRange
		diags = append(diags, d)
	}
	return diags
}

// diagnosticDetectCallsWithWrongArgCount flags a call whose argument
// count falls outside the resolved callable's min/max parameter range.
func (s *Scope) diagnosticDetectCallsWithWrongArgCount(f scopetypes.BscFile) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	isBs := strings.ToLower(strings.TrimPrefix(f.Extension(), ".")) == "bs"

	for _, call := range f.FunctionCalls() {
		if isBs && call.LowerName == "super" {
			continue
		}
		container, ok := s.GetCallableByName(call.Name)
		if !ok {
			continue
		}
		min := container.Callable.MinParams()
		max := container.Callable.MaxParams()
		if call.ArgCount >= min && call.ArgCount <= max {
			continue
		}
		expected := strconv.Itoa(max)
		if min != max {
			expected = fmt.Sprintf("%d-%d", min, max)
		}
		d := diagnostic.MismatchArgumentCount(expected, call.ArgCount)
		d.File = f.PkgPath()
		d.Range = call.Range
		diags = append(diags, d)
	}
	return diags
}

// diagnosticDetectLocalVarShadowing flags a local variable whose name
// collides with a builtin, a scoped function, or a class name.
func (s *Scope) diagnosticDetectLocalVarShadowing(f scopetypes.BscFile) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, fnScope := range f.FunctionScopes() {
		for _, v := range fnScope.Variables {
			if v.IsFunctionType {
				if s.builtins.IsBuiltin(v.LowerName) {
					d := diagnostic.LocalVarFunctionShadowsStdlib(v.Name)
					d.File = f.PkgPath()
					d.Range = v.NameRange
					diags = append(diags, d)
					continue
				}
				if _, ok := s.GetCallableByName(v.Name); ok {
					d := diagnostic.LocalVarFunctionShadowsScope(v.Name)
					d.File = f.PkgPath()
					d.Range = v.NameRange
					diags = append(diags, d)
				}
				continue
			}

			if s.builtins.IsBuiltin(v.LowerName) {
				continue
			}
			if _, ok := s.GetCallableByName(v.Name); ok {
				d := diagnostic.LocalVarShadowedByScopedFunction(v.Name)
				d.File = f.PkgPath()
				d.Range = v.NameRange
				diags = append(diags, d)
				continue
			}
			if cls, ok := s.GetClass(v.LowerName); ok {
				d := diagnostic.LocalVarSameNameAsClass(v.Name, cls.FullName)
				d.File = f.PkgPath()
				d.Range = v.NameRange
				diags = append(diags, d)
			}
		}
	}

	return diags
}

// diagnosticDetectFunctionCollisions flags a declared function whose
// name collides with a builtin or a class name.
func (s *Scope) diagnosticDetectFunctionCollisions(f scopetypes.BscFile) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, c := range f.Callables() {
		if s.builtins.IsBuiltin(c.LowerName) {
			d := diagnostic.ScopeFunctionShadowedByBuiltIn(c.Name)
			d.File = f.PkgPath()
			d.Range = c.NameRange
			diags = append(diags, d)
		}
		if cls, ok := s.GetClass(c.LowerName); ok {
			d := diagnostic.FunctionCannotHaveSameNameAsClass(c.Name, cls.FullName)
			d.File = f.PkgPath()
			d.Range = c.NameRange
			diags = append(diags, d)
		}
	}

	return diags
}

// diagnosticDetectNamespaceNameCollisions flags a parameter or
// assignment-target name that matches a key of the namespace lookup (a
// namespace's lowercase full name or one of its dotted prefixes).
func (s *Scope) diagnosticDetectNamespaceNameCollisions(f scopetypes.BscFile, nsLookup map[string]*NamespaceContainer) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, c := range f.Callables() {
		for _, p := range c.Params {
			lower := strings.ToLower(p.Name)
			ns, ok := nsLookup[lower]
			if !ok {
				continue
			}
			d := diagnostic.ParameterMayNotHaveSameNameAsNamespace(p.Name)
			d.File = f.PkgPath()
			d.Range = c.NameRange
			d.RelatedInformation = []diagnostic.RelatedInformation{namespaceRelatedInfo(ns)}
			diags = append(diags, d)
		}
	}

	refs := f.References()
	if refs != nil {
		for _, a := range refs.Assignments {
			ns, ok := nsLookup[a.TargetLowerName]
			if !ok {
				continue
			}
			d := diagnostic.VariableMayNotHaveSameNameAsNamespace(a.TargetName)
			d.File = f.PkgPath()
			d.Range = a.TargetNameRange
			d.RelatedInformation = []diagnostic.RelatedInformation{namespaceRelatedInfo(ns)}
			diags = append(diags, d)
		}
	}

	return diags
}

func namespaceRelatedInfo(ns *NamespaceContainer) diagnostic.RelatedInformation {
	uri := ""
	if ns.File != nil {
		uri = ns.File.PkgPath()
	}
	return diagnostic.RelatedInformation{
		Message: fmt.Sprintf("namespace '%s' declared here", ns.FullName),
		Location: diagnostic.Location{
			URI:   uri,
			Range: ns.NameRange,
		},
	}
}

func findEnclosingFunctionScope(f scopetypes.BscFile, pos scopetypes.Position) *scopetypes.FunctionScope {
	var best *scopetypes.FunctionScope
	for _, fnScope := range f.FunctionScopes() {
		if !fnScope.Contains(pos) {
			continue
		}
		if best == nil || rangeSize(fnScope.Range) < rangeSize(best.Range) {
			best = fnScope
		}
	}
	return best
}

func rangeSize(r scopetypes.Range) int {
	lines := r.End.Line - r.Start.Line
	if lines < 0 {
		return 0
	}
	return lines*100000 + r.End.Character
}

func hasLocalVar(fnScope *scopetypes.FunctionScope, lowerName string) bool {
	for _, v := range fnScope.Variables {
		if v.LowerName == lowerName {
			return true
		}
	}
	return false
}
