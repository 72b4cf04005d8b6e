// Copyright © 2024 The ELPS authors

package lspsurface

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/stbscript/bsc/diagnostic"
	"github.com/stbscript/bsc/scopetypes"
)

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}

func toProtocolRange(r scopetypes.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(r.Start.Line), Character: safeUint(r.Start.Character)},
		End:   protocol.Position{Line: safeUint(r.End.Line), Character: safeUint(r.End.Character)},
	}
}

func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n)
}

func toProtocolSeverity(sev diagnostic.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diagnostic.SeverityError:
		return protocol.DiagnosticSeverityError
	case diagnostic.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case diagnostic.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func toProtocolDiagnostic(d diagnostic.Diagnostic) protocol.Diagnostic {
	sev := toProtocolSeverity(d.Severity)
	code := d.Code
	related := make([]protocol.DiagnosticRelatedInformation, 0, len(d.RelatedInformation))
	for _, ri := range d.RelatedInformation {
		related = append(related, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{
				URI:   pathToURI(ri.Location.URI),
				Range: toProtocolRange(ri.Location.Range),
			},
			Message: ri.Message,
		})
	}
	return protocol.Diagnostic{
		Range:              toProtocolRange(d.Range),
		Severity:           &sev,
		Source:             strPtr("bsc"),
		Code:               &protocol.IntegerOrString{Value: code},
		Message:            d.Message,
		RelatedInformation: related,
	}
}

func strPtr(s string) *string { return &s }
