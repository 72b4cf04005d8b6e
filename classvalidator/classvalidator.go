// Copyright © 2024 The ELPS authors

// Package classvalidator provides a pluggable scope.ClassValidator. The
// core scope package leaves the class-checking algorithm unspecified
// beyond "reachable through the same interface as the fixed pipeline
// steps"; this package supplies one reasonable implementation that
// detects circular inheritance across every class reachable from a
// scope.
package classvalidator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stbscript/bsc/diagnostic"
	"github.com/stbscript/bsc/scope"
	"github.com/stbscript/bsc/scopetypes"
)

// CircularInheritance walks each class's ParentName chain, looking the
// parent up case-insensitively in the validating scope. It reports a
// diagnostic for every class caught in an inheritance cycle; a parent
// name that resolves to no class in the scope ends the walk without a
// diagnostic.
type CircularInheritance struct {
	diags []diagnostic.Diagnostic
}

// New returns a fresh CircularInheritance validator. Because a Scope's
// ClassValidator is invoked once per Validate() call and never shared
// across scopes, a new instance carries no cross-scope state.
func New() *CircularInheritance {
	return &CircularInheritance{}
}

// Validate implements scope.ClassValidator.
func (v *CircularInheritance) Validate(s *scope.Scope) {
	v.diags = nil

	classes := collectClasses(s)
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v.checkChain(s, classes, name)
	}
}

// Diagnostics implements scope.ClassValidator.
func (v *CircularInheritance) Diagnostics() []diagnostic.Diagnostic {
	return append([]diagnostic.Diagnostic(nil), v.diags...)
}

func collectClasses(s *scope.Scope) map[string]*scopetypes.ClassStatement {
	out := make(map[string]*scopetypes.ClassStatement)
	s.EnumerateAllFiles(func(f scopetypes.BscFile) {
		refs := f.References()
		if refs == nil {
			return
		}
		for _, c := range refs.Classes {
			if _, exists := out[c.LowerName]; !exists {
				out[c.LowerName] = c
			}
		}
	})
	return out
}

func (v *CircularInheritance) checkChain(s *scope.Scope, classes map[string]*scopetypes.ClassStatement, startLower string) {
	visited := map[string]bool{startLower: true}
	order := []string{startLower}
	current := classes[startLower]

	for current.ParentName != "" {
		parentLower := strings.ToLower(current.ParentName)
		parent, ok := classes[parentLower]
		if !ok {
			// The parent isn't declared anywhere reachable from this
			// scope; that's a different diagnostic family than a
			// cycle and out of scope for this validator.
			return
		}
		if visited[parentLower] {
			v.reportCycle(current, append(order, parentLower))
			return
		}
		visited[parentLower] = true
		order = append(order, parentLower)
		current = parent
	}
}

func (v *CircularInheritance) reportCycle(offender *scopetypes.ClassStatement, chain []string) {
	msg := fmt.Sprintf("class %q participates in a circular inheritance chain: %s", offender.Name, describeChain(chain))
	v.diags = append(v.diags, diagnostic.Diagnostic{
		Code:     "BSC2001",
		Severity: diagnostic.SeverityError,
		Message:  msg,
		File:     offender.File.PkgPath(),
		Range:    offender.NameRange,
	})
}

func describeChain(chain []string) string {
	out := chain[0]
	for _, c := range chain[1:] {
		out += " -> " + c
	}
	return out
}
