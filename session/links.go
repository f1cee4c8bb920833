package session

import (
	"context"
	"path/filepath"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

func (o *Orchestrator) textDocumentDocumentLink(ctx *glsp.Context, params *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	result, err := o.dispatchFeature("textDocument/documentLink", uri, dispatch.NoPosition, dispatch.NoPosition)
	if err != nil || result == nil {
		return nil, err
	}
	links, _ := result.([]protocol.DocumentLink)
	return links, nil
}

// documentLinkRequest turns every \input/\include/\import/\bibliography
// invocation in the requested document into a clickable link, resolving
// against the slice's already-loaded documents the same way the inclusion
// graph itself would, without reaching back into the live store (the
// handler only ever sees the snapshot it was dispatched with).
func (o *Orchestrator) documentLinkRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok || doc.Language != workspace.LaTeX {
		return nil, nil
	}

	baseDir := ""
	if p, err := workspace.URIToPath(doc.URI); err == nil {
		baseDir = filepath.Dir(p)
	}

	var out []protocol.DocumentLink
	for _, occ := range workspace.ExtractInclusionOccurrences(doc.Text) {
		target, ok := resolveLinkTarget(req.Slice, baseDir, occ.InclusionRef)
		if !ok {
			continue
		}
		rng := o.byteRangeToLSP(doc, occ.ArgStart, occ.End-1)
		out = append(out, protocol.DocumentLink{Range: rng, Target: &target})
	}
	return out, nil
}

// resolveLinkTarget mirrors Store.resolveInclusion's candidate-path
// expansion, but only ever checks documents already present in slice: a
// link to a file the slice traversal didn't reach (because it's past
// MaxSliceDepth, or the resolver couldn't find it) is better left
// unresolved than silently wrong.
func resolveLinkTarget(slice workspace.Slice, baseDir string, ref workspace.InclusionRef) (string, bool) {
	candidates := []string{ref.Target}
	if ref.SearchExt != "" && filepath.Ext(ref.Target) == "" {
		candidates = append(candidates, ref.Target+ref.SearchExt)
	}
	for _, cand := range candidates {
		path := cand
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		uri := workspace.NormalizeURI(workspace.PathToURI(path))
		if _, ok := slice.Get(uri); ok {
			return uri, true
		}
	}
	return "", false
}
