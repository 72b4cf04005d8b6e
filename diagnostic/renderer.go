// Copyright © 2024 The ELPS authors

// Rust-style annotated diagnostic rendering: a header line, then the
// offending source line with a caret span underneath, then any related
// information as further annotated spans.
package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/stbscript/bsc/scopetypes"
)

const wrapWidth = 100

// SourceLines resolves a file's contents to its individual lines so the
// renderer can quote the offending span. Callers backed by an on-disk
// FileProvider or an in-memory test fixture both satisfy this trivially.
type SourceLines func(file string) []string

// Renderer prints diagnostics in an annotated, human-readable form.
type Renderer struct {
	w       io.Writer
	mode    ColorMode
	sources SourceLines
	pal     palette
}

// NewRenderer builds a Renderer writing to w. sources may be nil, in
// which case diagnostics render without a quoted source line.
func NewRenderer(w io.Writer, mode ColorMode, sources SourceLines) *Renderer {
	return &Renderer{
		w:       w,
		mode:    mode,
		sources: sources,
		pal:     choosePalette(w, mode),
	}
}

// Render writes every diagnostic in order, one annotated block each.
func (r *Renderer) Render(diags []Diagnostic) {
	for _, d := range diags {
		r.renderOne(d)
	}
}

func (r *Renderer) renderOne(d Diagnostic) {
	label := r.pal.forSeverity(d.Severity)(fmt.Sprintf("%s[%s]", d.Severity, d.Code))
	fmt.Fprintf(r.w, "%s: %s\n", label, r.pal.bold(d.Message))

	loc := fmt.Sprintf("  --> %s:%d:%d", d.File, d.Range.Start.Line+1, d.Range.Start.Character+1)
	fmt.Fprintln(r.w, r.pal.lineNumber(loc))

	r.renderSpan(d.File, d.Range)

	for _, rel := range d.RelatedInformation {
		fmt.Fprintf(r.w, "  note: %s\n", indentedWrap(rel.Message))
		fmt.Fprintln(r.w, r.pal.lineNumber(fmt.Sprintf("    --> %s:%d:%d",
			rel.Location.URI, rel.Location.Range.Start.Line+1, rel.Location.Range.Start.Character+1)))
	}
	fmt.Fprintln(r.w)
}

func (r *Renderer) renderSpan(file string, rng scopetypes.Range) {
	if r.sources == nil || rng.IsInterpolated() {
		return
	}
	lines := r.sources(file)
	ln := rng.Start.Line
	if ln < 0 || ln >= len(lines) {
		return
	}
	src := lines[ln]
	gutter := fmt.Sprintf("%d", ln+1)
	fmt.Fprintf(r.w, "%s | %s\n", r.pal.lineNumber(gutter), src)

	start := rng.Start.Character
	end := rng.End.Character
	if rng.End.Line != ln || end <= start {
		end = start + 1
	}
	if start > len(src) {
		start = len(src)
	}
	if end > len(src)+1 {
		end = len(src) + 1
	}
	pad := strings.Repeat(" ", len(gutter)) + " | " + strings.Repeat(" ", start)
	carets := strings.Repeat("^", maxInt(1, end-start))
	fmt.Fprintf(r.w, "%s%s\n", pad, r.pal.pointer(carets))
}

func indentedWrap(s string) string {
	wrapped := wordwrap.String(s, wrapWidth)
	return strings.TrimSpace(indent.String(wrapped, 2))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
