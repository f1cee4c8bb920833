package session

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/internal/texdb"
	"github.com/texls-project/texls/workspace"
)

// textDocumentHover adapts a glsp hover callback into a dispatched feature
// request, recording the cursor position in the workspace store first; the
// build-on-save path reads it as the line for the follow-up forward search.
func (o *Orchestrator) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	line, char := int(params.Position.Line), int(params.Position.Character)

	o.mu.Lock()
	o.store.SetCursor(uri, workspace.Position{Line: line, Character: char})
	o.mu.Unlock()

	result, err := o.dispatchFeature("textDocument/hover", uri, line, char)
	if err != nil || result == nil {
		return nil, err
	}
	hover, _ := result.(*protocol.Hover)
	return hover, nil
}

// hoverRequest answers textDocument/hover: a known command's documentation,
// or the document defining the label/citation key under the cursor.
func (o *Orchestrator) hoverRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok {
		return nil, nil
	}
	byteOffset, ok := o.byteOffsetFromPosition(doc, req.Line, req.Character)
	if !ok {
		return nil, nil
	}

	if cmd, ok := commandAt(doc.Text, byteOffset); ok {
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: fmt.Sprintf("```latex\n\\%s\n```\n\n%s", cmd.Detail, cmd.Documentation),
			},
		}, nil
	}

	if occ, ok := occurrenceAt(workspace.ExtractLabelRefs(doc.Text), byteOffset); ok {
		defs := findLabelDefs(req.Slice, occ.Arg)
		if len(defs) == 0 {
			return &protocol.Hover{
				Contents: protocol.MarkupContent{Kind: protocol.MarkupKindPlainText, Value: fmt.Sprintf("undefined label %q", occ.Arg)},
			}, nil
		}
		return &protocol.Hover{
			Contents: protocol.MarkupContent{Kind: protocol.MarkupKindPlainText, Value: fmt.Sprintf("label %q defined in %s", occ.Arg, defs[0].URI)},
			Range:    ptrRange(o.byteRangeToLSP(doc, occ.Start, occ.End)),
		}, nil
	}

	if occ, ok := occurrenceAt(workspace.ExtractCiteRefs(doc.Text), byteOffset); ok {
		entry, ok := findBibEntry(req.Slice, occ.Arg)
		if !ok {
			return &protocol.Hover{
				Contents: protocol.MarkupContent{Kind: protocol.MarkupKindPlainText, Value: fmt.Sprintf("undefined citation %q", occ.Arg)},
			}, nil
		}
		return &protocol.Hover{
			Contents: protocol.MarkupContent{Kind: protocol.MarkupKindPlainText, Value: fmt.Sprintf("%s entry %q in %s", entry.Name, occ.Arg, entry.URI)},
			Range:    ptrRange(o.byteRangeToLSP(doc, occ.Start, occ.End)),
		}, nil
	}

	return nil, nil
}

// commandAt returns the known texdb.Command whose control sequence the
// cursor is positioned inside of.
func commandAt(text string, byteOffset int) (texdb.Command, bool) {
	all := texdb.All()
	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}
	for _, occ := range workspace.ScanCommand(text, names...) {
		nameStart := occ.Start + 1
		nameEnd := nameStart + len(occ.Name)
		if byteOffset >= nameStart && byteOffset <= nameEnd {
			return texdb.ByName(occ.Name)
		}
	}
	return texdb.Command{}, false
}

func ptrRange(r protocol.Range) *protocol.Range { return &r }
