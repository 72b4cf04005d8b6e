// Copyright © 2024 The ELPS authors

package scope

import (
	"strings"

	"github.com/stbscript/bsc/scopetypes"
)

// genericCapabilities is the default capability set: parent is always
// the catalog's global scope (the global scope itself has no parent),
// and own files are exactly the scope's direct dependency-graph edges.
type genericCapabilities struct{}

func (genericCapabilities) resolveParent(s *Scope) (*Scope, bool) {
	if s.name == GlobalScopeName || s.catalog == nil {
		return nil, false
	}
	return s.catalog.Global()
}

func (genericCapabilities) ownFiles(s *Scope) []scopetypes.BscFile {
	return resolveOwnFilesFromGraph(s, s.dependencyGraphKey)
}

// componentCapabilities backs the XML-component scope variant: its
// parent is another named component's scope (or the global scope if it
// has no explicit parent component), and its own-file enumeration walks
// the same direct-edge set as the generic scope — components differ in
// *which* scope they inherit from, not in how they collect their own
// files.
type componentCapabilities struct {
	parentComponentName string
}

func (c componentCapabilities) resolveParent(s *Scope) (*Scope, bool) {
	if c.parentComponentName == "" {
		if s.catalog == nil {
			return nil, false
		}
		return s.catalog.Global()
	}
	if s.catalog == nil {
		return nil, false
	}
	return s.catalog.Get(c.parentComponentName)
}

func (c componentCapabilities) ownFiles(s *Scope) []scopetypes.BscFile {
	return resolveOwnFilesFromGraph(s, s.dependencyGraphKey)
}

// resolveOwnFilesFromGraph resolves key's direct dependency-graph edges
// to files, transparently following the `component:` prefix (stripped
// with strings.TrimPrefix, not the malformed regex the intent implies)
// to a component's backing file where an edge names a component rather
// than a file pkgPath.
func resolveOwnFilesFromGraph(s *Scope, key string) []scopetypes.BscFile {
	if s.graph == nil || s.files == nil {
		return nil
	}
	var out []scopetypes.BscFile
	for _, edgeKey := range s.graph.GetOwnDependencies(key) {
		if componentName, ok := stripComponentPrefix(edgeKey); ok {
			if ref, found := s.files.GetComponent(componentName); found {
				out = append(out, ref.File)
			}
			continue
		}
		if f, found := s.files.GetFileByPkgPath(edgeKey); found {
			out = append(out, f)
		}
	}
	return out
}

const componentKeyPrefix = "component:"

func stripComponentPrefix(key string) (string, bool) {
	if !strings.HasPrefix(key, componentKeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, componentKeyPrefix), true
}

// NewXMLComponent creates a Scope for an XML component descriptor,
// inheriting from parentComponentName's scope (or the global scope if
// parentComponentName is empty).
func NewXMLComponent(cfg Config, parentComponentName string) *Scope {
	return newScope(cfg, componentCapabilities{parentComponentName: parentComponentName})
}
