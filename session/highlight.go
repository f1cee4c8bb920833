package session

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

func (o *Orchestrator) textDocumentDocumentHighlight(ctx *glsp.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	result, err := o.dispatchFeature("textDocument/documentHighlight", uri, int(params.Position.Line), int(params.Position.Character))
	if err != nil || result == nil {
		return nil, err
	}
	highlights, _ := result.([]protocol.DocumentHighlight)
	return highlights, nil
}

// documentHighlightRequest highlights every occurrence of the label or
// citation key under the cursor within the SAME document only, unlike
// references which spans the whole slice: highlight is meant to flash
// what's visible in the current editor, not jump the user elsewhere.
func (o *Orchestrator) documentHighlightRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok {
		return nil, nil
	}
	byteOffset, ok := o.byteOffsetFromPosition(doc, req.Line, req.Character)
	if !ok {
		return nil, nil
	}

	occ, ok := renameableOccurrenceAt(doc.Text, byteOffset)
	if !ok {
		return nil, nil
	}

	var out []protocol.DocumentHighlight
	switch occ.kind {
	case renameKindLabel:
		writeKind := protocol.DocumentHighlightKindWrite
		readKind := protocol.DocumentHighlightKindRead
		for _, d := range workspace.ExtractLabelDefs(doc.Text) {
			if d.Arg == occ.name {
				out = append(out, protocol.DocumentHighlight{Range: o.byteRangeToLSP(doc, d.ArgStart, d.ArgStart+len(d.Arg)), Kind: &writeKind})
			}
		}
		for _, r := range workspace.ExtractLabelRefs(doc.Text) {
			if r.Arg == occ.name {
				out = append(out, protocol.DocumentHighlight{Range: o.byteRangeToLSP(doc, r.ArgStart, r.ArgStart+len(r.Arg)), Kind: &readKind})
			}
		}
	case renameKindCite:
		readKind := protocol.DocumentHighlightKindRead
		for _, r := range workspace.ExtractCiteRefs(doc.Text) {
			if r.Arg == occ.name {
				out = append(out, protocol.DocumentHighlight{Range: o.byteRangeToLSP(doc, r.ArgStart, r.ArgStart+len(r.Arg)), Kind: &readKind})
			}
		}
	}
	return out, nil
}
