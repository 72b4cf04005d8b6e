// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode controls whether rendered diagnostics carry ANSI escapes.
type ColorMode int

const (
	// ColorAuto enables color only when the output stream is a terminal
	// that supports it.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// palette holds the styling functions used by the renderer. When color
// is disabled every function is the identity function, so callers never
// need to branch on ColorMode themselves.
type palette struct {
	errorLabel   func(string) string
	warningLabel func(string) string
	infoLabel    func(string) string
	lineNumber   func(string) string
	pointer      func(string) string
	bold         func(string) string
}

func identity(s string) string { return s }

var plainPalette = palette{
	errorLabel:   identity,
	warningLabel: identity,
	infoLabel:    identity,
	lineNumber:   identity,
	pointer:      identity,
	bold:         identity,
}

// choosePalette resolves the effective palette for w given mode. Auto
// mode checks both that w is a file descriptor recognized as a terminal
// (go-isatty) and that termenv's profile detection sees color support
// past a dumb terminal, matching the two independent signals a real CLI
// renderer should combine before committing to escape codes.
func choosePalette(w io.Writer, mode ColorMode) palette {
	switch mode {
	case ColorNever:
		return plainPalette
	case ColorAlways:
		return coloredPalette(termenv.ANSI)
	default:
		if supportsColor(w) {
			return coloredPalette(termenv.EnvColorProfile())
		}
		return plainPalette
	}
}

func supportsColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

func coloredPalette(p termenv.Profile) palette {
	style := func(color string) func(string) string {
		return func(s string) string {
			return termenv.String(s).Foreground(p.Color(color)).String()
		}
	}
	return palette{
		errorLabel:   style("9"),
		warningLabel: style("11"),
		infoLabel:    style("12"),
		lineNumber:   style("8"),
		pointer:      style("9"),
		bold: func(s string) string {
			return termenv.String(s).Bold().String()
		},
	}
}

func (p palette) forSeverity(sev Severity) func(string) string {
	switch sev {
	case SeverityError:
		return p.errorLabel
	case SeverityWarning:
		return p.warningLabel
	default:
		return p.infoLabel
	}
}
