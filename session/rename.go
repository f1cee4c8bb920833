package session

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

func (o *Orchestrator) textDocumentPrepareRename(ctx *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	return o.dispatchFeature("textDocument/prepareRename", uri, int(params.Position.Line), int(params.Position.Character))
}

func (o *Orchestrator) textDocumentRename(ctx *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	result, err := o.dispatchRename(uri, int(params.Position.Line), int(params.Position.Character), params.NewName)
	if err != nil || result == nil {
		return nil, err
	}
	edit, _ := result.(*protocol.WorkspaceEdit)
	return edit, nil
}

// dispatchRename is dispatchFeature widened to also thread newName through
// to the handler, since rename is the only feature whose result depends on
// a parameter beyond cursor position and document slice.
func (o *Orchestrator) dispatchRename(uri string, line, character int, newName string) (any, error) {
	slice, env, err := o.takeSlice(uri)
	if err != nil {
		return nil, invalidRequestError(err)
	}
	req := dispatch.FeatureRequest{Slice: slice, URI: workspace.NormalizeURI(uri), Environment: env, Line: line, Character: character}
	return o.renameRequestWithName(context.Background(), req, newName)
}

// prepareRenameRequest reports the range of the renameable symbol under the
// cursor (a \label, \ref-family, or \cite-family key), so the client can
// show the user what text they're about to rename before they type a new
// name.
func (o *Orchestrator) prepareRenameRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok {
		return nil, nil
	}
	byteOffset, ok := o.byteOffsetFromPosition(doc, req.Line, req.Character)
	if !ok {
		return nil, nil
	}
	if occ, ok := renameableOccurrenceAt(doc.Text, byteOffset); ok {
		rng := o.byteRangeToLSP(doc, occ.ArgStart, occ.ArgStart+len(occ.Arg))
		return &rng, nil
	}
	return nil, &rpcError{code: codeInvalidRequest, message: "nothing renameable under the cursor"}
}

// renameRequest is registered in the dispatch.Registry for symmetry with
// every other method name but is never invoked directly: rename needs the
// requested newName, which dispatch.FeatureRequest has no field for, so
// textDocumentRename calls renameRequestWithName through dispatchRename
// instead of going through dispatchFeature.
func (o *Orchestrator) renameRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	return nil, fmt.Errorf("rename requires newName; use textDocument/rename")
}

func (o *Orchestrator) renameRequestWithName(ctx context.Context, req dispatch.FeatureRequest, newName string) (any, error) {
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
		return nil, &rpcError{code: codeInvalidRequest, message: "nothing renameable under the cursor"}
	}

	var targets []labelTarget
	switch occ.kind {
	case renameKindLabel:
		targets = append(findLabelDefs(req.Slice, occ.name), findLabelRefs(req.Slice, occ.name)...)
	case renameKindCite:
		targets = findCiteRefs(req.Slice, occ.name)
		if entry, found := findBibEntry(req.Slice, occ.name); found {
			targets = append(targets, entry)
		}
	}

	changes := make(map[string][]protocol.TextEdit)
	for _, t := range targets {
		doc, ok := req.Slice.Get(t.URI)
		if !ok {
			continue
		}
		changes[t.URI] = append(changes[t.URI], protocol.TextEdit{
			Range:   o.byteRangeToLSP(doc, t.ArgStart, t.ArgStart+len(t.Arg)),
			NewText: newName,
		})
	}
	return &protocol.WorkspaceEdit{Changes: changes}, nil
}

type renameKind int

const (
	renameKindLabel renameKind = iota
	renameKindCite
)

type renameableOccurrence struct {
	kind     renameKind
	name     string
	ArgStart int
	Arg      string
}

// renameableOccurrenceAt finds whichever label/ref/citation occurrence the
// cursor sits inside of and classifies it, so prepareRename and rename
// share one lookup instead of re-deriving it twice.
func renameableOccurrenceAt(text string, byteOffset int) (renameableOccurrence, bool) {
	if occ, ok := occurrenceAt(workspace.ExtractLabelDefs(text), byteOffset); ok {
		return renameableOccurrence{kind: renameKindLabel, name: occ.Arg, ArgStart: occ.ArgStart, Arg: occ.Arg}, true
	}
	if occ, ok := occurrenceAt(workspace.ExtractLabelRefs(text), byteOffset); ok {
		return renameableOccurrence{kind: renameKindLabel, name: occ.Arg, ArgStart: occ.ArgStart, Arg: occ.Arg}, true
	}
	if occ, ok := occurrenceAt(workspace.ExtractCiteRefs(text), byteOffset); ok {
		return renameableOccurrence{kind: renameKindCite, name: occ.Arg, ArgStart: occ.ArgStart, Arg: occ.Arg}, true
	}
	return renameableOccurrence{}, false
}
