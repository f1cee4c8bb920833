package session

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

func (o *Orchestrator) textDocumentInlayHint(ctx *glsp.Context, params *protocol.InlayHintParams) ([]protocol.InlayHint, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	result, err := o.dispatchFeature("textDocument/inlayHint", uri, dispatch.NoPosition, dispatch.NoPosition)
	if err != nil || result == nil {
		return nil, err
	}
	hints, _ := result.([]protocol.InlayHint)
	return hints, nil
}

func (o *Orchestrator) inlayHintResolve(ctx *glsp.Context, params *protocol.InlayHint) (*protocol.InlayHint, error) {
	o.setNotify(ctx)
	return params, nil
}

// inlayHintRequest shows the resolved target of every \ref-family and
// \cite-family occurrence as a trailing hint, so a reader can tell at a
// glance whether a reference resolves and to what without a hover.
func (o *Orchestrator) inlayHintRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok || doc.Language != workspace.LaTeX {
		return nil, nil
	}

	var out []protocol.InlayHint
	kind := protocol.InlayHintKindType

	for _, occ := range workspace.ExtractLabelRefs(doc.Text) {
		label := "undefined"
		if defs := findLabelDefs(req.Slice, occ.Arg); len(defs) > 0 {
			label = shortURI(defs[0].URI)
		}
		pos := o.byteRangeToLSP(doc, occ.End, occ.End).Start
		out = append(out, protocol.InlayHint{
			Position: pos,
			Label:    fmt.Sprintf(" → %s", label),
			Kind:     &kind,
		})
	}
	for _, occ := range workspace.ExtractCiteRefs(doc.Text) {
		label := "undefined"
		if entry, found := findBibEntry(req.Slice, occ.Arg); found {
			label = shortURI(entry.URI)
		}
		pos := o.byteRangeToLSP(doc, occ.End, occ.End).Start
		out = append(out, protocol.InlayHint{
			Position: pos,
			Label:    fmt.Sprintf(" → %s", label),
			Kind:     &kind,
		})
	}
	return out, nil
}

func shortURI(uri string) string {
	if path, err := workspace.URIToPath(uri); err == nil {
		return path
	}
	return uri
}
