// Copyright © 2024 The ELPS authors

// Package scope implements the scope graph and validator: the subsystem
// that models scope containment and inheritance, caches per-scope lookup
// tables, performs cross-file validation, and invalidates derived state
// when file dependencies change.
//
// Everything this package consumes from the rest of the toolchain — file
// loading, the diagnostic message catalog, class-hierarchy validation,
// logging — arrives through the narrow interfaces in this file. Real
// implementations live in sibling packages (loader, diagnostic,
// classvalidator, telemetry); this package only depends on their
// contracts, mirroring the collaborator boundary the source system draws
// around its analysis core.
package scope

import (
	"github.com/stbscript/bsc/diagnostic"
	"github.com/stbscript/bsc/scopetypes"
)

// ComponentRef is what the file provider returns for a named XML
// component: enough to find its backing file.
type ComponentRef struct {
	File scopetypes.BscFile
}

// FileProvider resolves pkgPaths and component names to parsed files.
// A real implementation walks a project tree on disk (see the loader
// package); tests may supply an in-memory map.
type FileProvider interface {
	GetFileByPkgPath(pkgPath string) (scopetypes.BscFile, bool)
	GetComponent(name string) (ComponentRef, bool)
}

// PluginEvent names a point in the validation pipeline where the plugin
// bus fires.
type PluginEvent string

const (
	BeforeScopeValidate PluginEvent = "beforeScopeValidate"
	AfterScopeValidate  PluginEvent = "afterScopeValidate"
)

// PluginBus is the observer interface fired before and after scope
// validation, letting external analyzers contribute diagnostics.
// Handlers run synchronously on the validating goroutine and must not
// recursively trigger validation of the scope currently validating.
type PluginBus interface {
	Emit(event PluginEvent, s *Scope, files []scopetypes.BscFile, callableContainerMap map[string][]*scopetypes.CallableContainer)
}

// NopPluginBus is a PluginBus that does nothing, for callers that have
// no external analyzers registered.
type NopPluginBus struct{}

func (NopPluginBus) Emit(PluginEvent, *Scope, []scopetypes.BscFile, map[string][]*scopetypes.CallableContainer) {
}

// ClassValidator is the pluggable collaborator that validates class
// hierarchies (circular inheritance, field overrides). Its algorithm is
// deliberately unspecified by the source system; this package only
// depends on the contract.
type ClassValidator interface {
	Validate(s *Scope)
	Diagnostics() []diagnostic.Diagnostic
}

// Level is a logging severity level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Label is a structured key/value pair attached to a log line.
type Label struct {
	Key   string
	Value string
}

// Logger is the leveled logging collaborator. Time wraps thunk, measures
// its execution, and logs the duration as a label alongside msg.
type Logger interface {
	Log(level Level, msg string, labels ...Label)
	Time(level Level, msg string, labels []Label, thunk func())
}

// NopLogger discards everything. Useful as a default and in tests that
// don't care about log output.
type NopLogger struct{}

func (NopLogger) Log(Level, string, ...Label) {}
func (NopLogger) Time(_ Level, _ string, _ []Label, thunk func()) {
	thunk()
}

// BuiltinRegistry is a case-insensitive membership oracle over
// standard-library callable names. The process-wide default is
// immutable after initialization (see builtin.go); tests may supply a
// smaller stand-in.
type BuiltinRegistry interface {
	IsBuiltin(lowerName string) bool
}
