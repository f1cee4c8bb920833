package session

import (
	"context"
	"path"
	"sort"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/config"
	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

// sectionSymbolKinds maps a Section.Level (0 == \part) to the closest LSP
// SymbolKind, since the protocol has no "LaTeX sectioning command" kind of
// its own.
var sectionSymbolKinds = []protocol.SymbolKind{
	protocol.SymbolKindNamespace, // part
	protocol.SymbolKindModule,    // chapter
	protocol.SymbolKindClass,     // section
	protocol.SymbolKindMethod,    // subsection
	protocol.SymbolKindProperty,  // subsubsection
	protocol.SymbolKindField,     // paragraph
	protocol.SymbolKindField,     // subparagraph
}

func (o *Orchestrator) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	o.setNotify(ctx)
	return o.dispatchFeature("textDocument/documentSymbol", params.TextDocument.URI, dispatch.NoPosition, dispatch.NoPosition)
}

// documentSymbolRequest builds a nested outline from a document's
// sectioning commands, attaching \label definitions as leaves of the
// innermost enclosing section, filtered by the configured
// allowed/ignored symbol patterns.
func (o *Orchestrator) documentSymbolRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok {
		return nil, nil
	}
	filter := req.Environment.Options.Symbols
	return symbolsForDocument(o, doc, filter), nil
}

// symbolEntry is a section or a label, tagged so the merge below can walk
// both lists in document order instead of processing all sections and then
// all labels, which would attach every label to whichever section happened
// to be pushed last instead of the one it textually falls under.
type symbolEntry struct {
	start     int
	isSection bool
	sym       protocol.DocumentSymbol
	level     int
}

func symbolsForDocument(o *Orchestrator, doc workspace.Document, filter config.SymbolOptions) []protocol.DocumentSymbol {
	sections := workspace.ExtractSections(doc.Text)
	labels := workspace.ExtractLabelDefs(doc.Text)

	entries := make([]symbolEntry, 0, len(sections)+len(labels))
	for _, sec := range sections {
		if !passesSymbolFilter(sec.Title, filter) {
			continue
		}
		kind := protocol.SymbolKindString
		if sec.Level >= 0 && sec.Level < len(sectionSymbolKinds) {
			kind = sectionSymbolKinds[sec.Level]
		}
		rng := o.byteRangeToLSP(doc, sec.Start, sec.End)
		entries = append(entries, symbolEntry{
			start:     sec.Start,
			isSection: true,
			level:     sec.Level,
			sym: protocol.DocumentSymbol{
				Name:           sec.Title,
				Kind:           kind,
				Range:          rng,
				SelectionRange: rng,
			},
		})
	}
	for _, lbl := range labels {
		if !passesSymbolFilter(lbl.Arg, filter) {
			continue
		}
		rng := o.byteRangeToLSP(doc, lbl.Start, lbl.End)
		entries = append(entries, symbolEntry{
			start: lbl.Start,
			sym: protocol.DocumentSymbol{
				Name:           lbl.Arg,
				Kind:           protocol.SymbolKindConstant,
				Range:          rng,
				SelectionRange: rng,
			},
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].start < entries[j].start })

	var roots []protocol.DocumentSymbol
	var stack []*protocol.DocumentSymbol
	stackLevel := []int{}

	for _, e := range entries {
		if !e.isSection {
			if len(stack) == 0 {
				roots = append(roots, e.sym)
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, e.sym)
			continue
		}
		for len(stack) > 0 && stackLevel[len(stackLevel)-1] >= e.level {
			stack = stack[:len(stack)-1]
			stackLevel = stackLevel[:len(stackLevel)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, e.sym)
			stack = append(stack, &roots[len(roots)-1])
			stackLevel = append(stackLevel, e.level)
			continue
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, e.sym)
		stack = append(stack, &parent.Children[len(parent.Children)-1])
		stackLevel = append(stackLevel, e.level)
	}

	return roots
}

// passesSymbolFilter applies symbols.allowedPatterns/ignoredPatterns: an
// ignored match always wins; when allowedPatterns is non-empty, name must
// match one of them. Patterns are shell globs (path.Match).
func passesSymbolFilter(name string, filter config.SymbolOptions) bool {
	for _, pat := range filter.IgnoredPatterns {
		if ok, _ := path.Match(pat, name); ok {
			return false
		}
	}
	if len(filter.AllowedPatterns) == 0 {
		return true
	}
	for _, pat := range filter.AllowedPatterns {
		if ok, _ := path.Match(pat, name); ok {
			return true
		}
	}
	return false
}

// workspaceSymbol handles workspace/symbol, which is not document-scoped
// and so bypasses the dispatch.Registry: it reads straight from the store
// under the session lock, mirroring the read path every mutating
// notification already uses rather than inventing a second snapshot
// mechanism for a single global request.
func (o *Orchestrator) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	o.setNotify(ctx)

	o.mu.Lock()
	docs := o.store.Iter()
	filter := o.store.Environment.Options.Symbols
	o.mu.Unlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })

	var out []protocol.SymbolInformation
	for _, doc := range docs {
		if doc.Language != workspace.LaTeX {
			continue
		}
		for _, sym := range symbolsForDocument(o, doc, filter) {
			collectSymbolInformation(&out, doc.URI, sym)
		}
	}
	if params.Query != "" {
		filtered := out[:0]
		for _, si := range out {
			if containsFold(si.Name, params.Query) {
				filtered = append(filtered, si)
			}
		}
		out = filtered
	}
	return out, nil
}

func collectSymbolInformation(out *[]protocol.SymbolInformation, uri string, sym protocol.DocumentSymbol) {
	*out = append(*out, protocol.SymbolInformation{
		Name: sym.Name,
		Kind: sym.Kind,
		Location: protocol.Location{
			URI:   uri,
			Range: sym.Range,
		},
	})
	for _, child := range sym.Children {
		collectSymbolInformation(out, uri, child)
	}
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return indexFold(s, substr) >= 0
}

func indexFold(s, substr string) int {
	sl, sub := []rune(toLowerASCII(s)), []rune(toLowerASCII(substr))
	if len(sub) > len(sl) {
		return -1
	}
	for i := 0; i+len(sub) <= len(sl); i++ {
		match := true
		for j := range sub {
			if sl[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
