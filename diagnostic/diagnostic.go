// Copyright © 2024 The ELPS authors

// Package diagnostic defines the diagnostic payload shape and the pure
// catalog of factory functions that produce it: the core supplies
// range, file, and any related information; this package only ever
// supplies code, message, and severity.
//
// It is intentionally independent of the scope package so it can be
// reused by the CLI, the LSP surface, and tests without an import
// cycle.
package diagnostic

import "github.com/stbscript/bsc/scopetypes"

// Severity indicates how serious a diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Location anchors a RelatedInformation entry to a file and range.
type Location struct {
	URI   string
	Range scopetypes.Range
}

// RelatedInformation points at a secondary location relevant to a
// diagnostic, e.g. the namespace declaration a variable collides with.
type RelatedInformation struct {
	Message  string
	Location Location
}

// Diagnostic is a single reported problem. Code, Message, and Severity
// come from a catalog factory function; Range, File, and
// RelatedInformation are filled in by the caller (the scope validator)
// since only it knows where in the source the problem occurred.
type Diagnostic struct {
	Code               string
	Message            string
	Severity           Severity
	Range              scopetypes.Range
	File               string
	RelatedInformation []RelatedInformation
}
