package session

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/diag"
)

func toProtocolDiagnostic(d diag.LSPDiagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverity(d.Severity)
	related := make([]protocol.DiagnosticRelatedInformation, 0, len(d.RelatedInformation))
	for _, r := range d.RelatedInformation {
		related = append(related, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{
				URI:   r.Location.URI,
				Range: toProtocolRange(r.Location.Range),
			},
			Message: r.Message,
		})
	}

	pd := protocol.Diagnostic{
		Range:    toProtocolRange(d.Range),
		Severity: &severity,
		Source:   &d.Source,
		Message:  d.Message,
	}
	if d.Code != "" {
		code := protocol.IntegerOrString{Value: d.Code}
		pd.Code = &code
	}
	if len(related) > 0 {
		pd.RelatedInformation = related
	}
	return pd
}

func toProtocolRange(r diag.LSPRange) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(r.Start.Line), Character: protocol.UInteger(r.Start.Character)},
		End:   protocol.Position{Line: protocol.UInteger(r.End.Line), Character: protocol.UInteger(r.End.Character)},
	}
}
