// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"encoding/json"
	"io"
)

// jsonDiagnostic is the wire shape written by WriteJSON. Severity is
// rendered as its string form since the int enum is an implementation
// detail callers of --json output shouldn't depend on.
type jsonDiagnostic struct {
	Code               string                   `json:"code"`
	Message            string                   `json:"message"`
	Severity           string                   `json:"severity"`
	File               string                   `json:"file"`
	Range              jsonRange                `json:"range"`
	RelatedInformation []jsonRelatedInformation `json:"relatedInformation,omitempty"`
}

type jsonRange struct {
	StartLine int `json:"startLine"`
	StartChar int `json:"startChar"`
	EndLine   int `json:"endLine"`
	EndChar   int `json:"endChar"`
}

type jsonRelatedInformation struct {
	Message string `json:"message"`
	URI     string `json:"uri"`
	Range   jsonRange `json:"range"`
}

// WriteJSON writes diags to w as a JSON array, one object per
// diagnostic, in the order given.
func WriteJSON(w io.Writer, diags []Diagnostic) error {
	out := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		jd := jsonDiagnostic{
			Code:     d.Code,
			Message:  d.Message,
			Severity: d.Severity.String(),
			File:     d.File,
			Range: jsonRange{
				StartLine: d.Range.Start.Line,
				StartChar: d.Range.Start.Character,
				EndLine:   d.Range.End.Line,
				EndChar:   d.Range.End.Character,
			},
		}
		for _, ri := range d.RelatedInformation {
			jd.RelatedInformation = append(jd.RelatedInformation, jsonRelatedInformation{
				Message: ri.Message,
				URI:     ri.Location.URI,
				Range: jsonRange{
					StartLine: ri.Location.Range.Start.Line,
					StartChar: ri.Location.Range.Start.Character,
					EndLine:   ri.Location.Range.End.Line,
					EndChar:   ri.Location.Range.End.Character,
				},
			})
		}
		out = append(out, jd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
