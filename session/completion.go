package session

import (
	"context"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/internal/texdb"
	"github.com/texls-project/texls/workspace"
)

func (o *Orchestrator) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	line, char := int(params.Position.Line), int(params.Position.Character)

	o.mu.Lock()
	o.store.SetCursor(uri, workspace.Position{Line: line, Character: char})
	o.mu.Unlock()

	return o.dispatchFeature("textDocument/completion", uri, line, char)
}

func (o *Orchestrator) completionItemResolve(ctx *glsp.Context, params *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	o.setNotify(ctx)
	if cmd, ok := texdb.ByName(strings.TrimPrefix(params.Label, `\`)); ok {
		detail := cmd.Detail + " — " + cmd.Documentation
		params.Detail = &detail
	}
	return params, nil
}

// completionRequest answers textDocument/completion: command-name
// completions when the cursor sits inside a macro name, label/citation-key
// completions when it sits inside the known reference/citation macros'
// argument.
func (o *Orchestrator) completionRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok {
		return nil, nil
	}
	byteOffset, ok := o.byteOffsetFromPosition(doc, req.Line, req.Character)
	if !ok {
		return nil, nil
	}

	prefix, inMacro := macroPrefixBefore(doc.Text, byteOffset)
	if inMacro {
		return commandCompletions(prefix), nil
	}

	if occ, ok := argumentOccurrenceAt(workspace.ExtractLabelRefs(doc.Text), byteOffset); ok {
		_ = occ
		return labelCompletions(req.Slice), nil
	}
	if occ, ok := argumentOccurrenceAt(workspace.ExtractCiteRefs(doc.Text), byteOffset); ok {
		_ = occ
		return bibKeyCompletions(req.Slice), nil
	}

	return nil, nil
}

// macroPrefixBefore reports whether byteOffset sits immediately after a
// backslash-introduced, still-open macro name (no following brace yet), and
// if so returns the partial name typed so far.
func macroPrefixBefore(text string, byteOffset int) (string, bool) {
	if byteOffset > len(text) {
		return "", false
	}
	i := byteOffset
	for i > 0 && isIdentByteLocal(text[i-1]) {
		i--
	}
	if i == 0 || text[i-1] != '\\' {
		return "", false
	}
	return text[i:byteOffset], true
}

func isIdentByteLocal(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// argumentOccurrenceAt is occurrenceAt widened to also match a cursor sitting
// anywhere inside an empty or partially typed argument, used by completion
// where the argument the user is still typing may be shorter than Arg.
func argumentOccurrenceAt(occs []workspace.Occurrence, byteOffset int) (workspace.Occurrence, bool) {
	for _, occ := range occs {
		if byteOffset >= occ.ArgStart && byteOffset <= occ.End {
			return occ, true
		}
	}
	return workspace.Occurrence{}, false
}

func commandCompletions(prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, cmd := range texdb.WithPrefix(prefix) {
		kind := protocol.CompletionItemKindSnippet
		format := protocol.InsertTextFormatSnippet
		// The user has already typed the backslash, so it lives in the label
		// (what the client displays) but not in the inserted text.
		label := `\` + cmd.Name
		detail := cmd.Detail
		insertText := cmd.Snippet
		sortText := "0_" + cmd.Name
		items = append(items, protocol.CompletionItem{
			Label:            label,
			Kind:             &kind,
			Detail:           &detail,
			InsertText:       &insertText,
			InsertTextFormat: &format,
			SortText:         &sortText,
		})
	}
	return items
}

func labelCompletions(slice workspace.Slice) []protocol.CompletionItem {
	seen := map[string]bool{}
	var items []protocol.CompletionItem
	for _, doc := range slice.Documents {
		if doc.Language != workspace.LaTeX {
			continue
		}
		for _, occ := range workspace.ExtractLabelDefs(doc.Text) {
			if seen[occ.Arg] {
				continue
			}
			seen[occ.Arg] = true
			kind := protocol.CompletionItemKindReference
			items = append(items, protocol.CompletionItem{Label: occ.Arg, Kind: &kind})
		}
	}
	return items
}

func bibKeyCompletions(slice workspace.Slice) []protocol.CompletionItem {
	seen := map[string]bool{}
	var items []protocol.CompletionItem
	for _, doc := range slice.Documents {
		if doc.Language != workspace.BibTeX {
			continue
		}
		for _, occ := range workspace.ExtractBibEntries(doc.Text) {
			if seen[occ.Arg] {
				continue
			}
			seen[occ.Arg] = true
			kind := protocol.CompletionItemKindValue
			detail := strings.TrimPrefix(occ.Name, "@")
			items = append(items, protocol.CompletionItem{Label: occ.Arg, Kind: &kind, Detail: &detail})
		}
	}
	return items
}
