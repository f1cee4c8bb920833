package session

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

func (o *Orchestrator) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	return o.dispatchFeature("textDocument/definition", uri, int(params.Position.Line), int(params.Position.Character))
}

// definitionRequest answers textDocument/definition for the label or
// citation key under the cursor, returning every definition site (usually
// one, but \label has no uniqueness invariant the server enforces).
func (o *Orchestrator) definitionRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok {
		return nil, nil
	}
	byteOffset, ok := o.byteOffsetFromPosition(doc, req.Line, req.Character)
	if !ok {
		return nil, nil
	}

	if occ, ok := occurrenceAt(workspace.ExtractLabelRefs(doc.Text), byteOffset); ok {
		return o.locationsForTargets(req.Slice, findLabelDefs(req.Slice, occ.Arg)), nil
	}
	if occ, ok := occurrenceAt(workspace.ExtractCiteRefs(doc.Text), byteOffset); ok {
		if entry, found := findBibEntry(req.Slice, occ.Arg); found {
			return o.locationsForTargets(req.Slice, []labelTarget{entry}), nil
		}
		return nil, nil
	}
	return nil, nil
}

// locationsForTargets converts labelTargets into protocol.Location values,
// resolving each occurrence's byte range through the owning document's own
// source (not the requesting document's), since a definition commonly
// lives in a different file within the slice.
func (o *Orchestrator) locationsForTargets(slice workspace.Slice, targets []labelTarget) []protocol.Location {
	out := make([]protocol.Location, 0, len(targets))
	for _, t := range targets {
		doc, ok := slice.Get(t.URI)
		if !ok {
			continue
		}
		out = append(out, protocol.Location{
			URI:   t.URI,
			Range: o.byteRangeToLSP(doc, t.Start, t.End),
		})
	}
	return out
}
