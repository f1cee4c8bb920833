package session

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

func (o *Orchestrator) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	result, err := o.dispatchReferences(uri, int(params.Position.Line), int(params.Position.Character), params.Context.IncludeDeclaration)
	if err != nil || result == nil {
		return nil, err
	}
	locs, _ := result.([]protocol.Location)
	return locs, nil
}

// dispatchReferences is dispatchFeature widened to thread the request's
// includeDeclaration flag through to the handler, the same shape
// dispatchRename uses for newName.
func (o *Orchestrator) dispatchReferences(uri string, line, character int, includeDeclaration bool) (any, error) {
	slice, env, err := o.takeSlice(uri)
	if err != nil {
		return nil, invalidRequestError(err)
	}
	req := dispatch.FeatureRequest{Slice: slice, URI: workspace.NormalizeURI(uri), Environment: env, Line: line, Character: character}
	return o.referencesRequestWithDecl(context.Background(), req, includeDeclaration)
}

// referencesRequest is registered in the dispatch.Registry for symmetry
// with every other method name; a caller coming through the registry has no
// ReferenceContext to consult, so it includes the declaration.
func (o *Orchestrator) referencesRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	return o.referencesRequestWithDecl(ctx, req, true)
}

// referencesRequestWithDecl answers textDocument/references for the label
// or citation key under the cursor: every \ref-family/\cite-family
// occurrence across the slice, plus the definition site when
// includeDeclaration asks for it.
func (o *Orchestrator) referencesRequestWithDecl(ctx context.Context, req dispatch.FeatureRequest, includeDeclaration bool) (any, error) {
	doc, ok := req.Document()
	if !ok {
		return nil, nil
	}
	byteOffset, ok := o.byteOffsetFromPosition(doc, req.Line, req.Character)
	if !ok {
		return nil, nil
	}

	var refs, defs []labelTarget
	if occ, ok := occurrenceAt(workspace.ExtractLabelDefs(doc.Text), byteOffset); ok {
		refs = findLabelRefs(req.Slice, occ.Arg)
		defs = findLabelDefs(req.Slice, occ.Arg)
	} else if occ, ok := occurrenceAt(workspace.ExtractLabelRefs(doc.Text), byteOffset); ok {
		refs = findLabelRefs(req.Slice, occ.Arg)
		defs = findLabelDefs(req.Slice, occ.Arg)
	} else if occ, ok := occurrenceAt(workspace.ExtractCiteRefs(doc.Text), byteOffset); ok {
		refs = findCiteRefs(req.Slice, occ.Arg)
		if entry, found := findBibEntry(req.Slice, occ.Arg); found {
			defs = []labelTarget{entry}
		}
	} else {
		return nil, nil
	}

	if !includeDeclaration {
		defs = nil
	}
	return o.referenceLocations(req.Slice, refs, defs), nil
}

func (o *Orchestrator) referenceLocations(slice workspace.Slice, refs, defs []labelTarget) []protocol.Location {
	out := o.locationsForTargets(slice, refs)
	out = append(out, o.locationsForTargets(slice, defs)...)
	return out
}
