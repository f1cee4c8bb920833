package session

import (
	"context"
	"log/slog"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/build"
	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

func (o *Orchestrator) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	result, err := o.dispatchFeature("textDocument/formatting", uri, dispatch.NoPosition, dispatch.NoPosition)
	if err != nil || result == nil {
		return nil, err
	}
	edits, _ := result.([]protocol.TextEdit)
	return edits, nil
}

// formattingRequest invokes the configured external formatter (latexFormatter
// for LaTeX, bibtexFormatter for BibTeX) and returns a single whole-document
// TextEdit replacing the current text with its stdout. An unconfigured
// formatter yields no edits rather than an error, the same "nothing to do"
// treatment the build engine gives an unconfigured forward-search tool.
func (o *Orchestrator) formattingRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok {
		return nil, nil
	}

	var executable string
	switch doc.Language {
	case workspace.LaTeX:
		executable = req.Environment.Options.LatexFormatter
	case workspace.BibTeX:
		executable = req.Environment.Options.BibtexFormatter
	default:
		return nil, nil
	}
	if executable == "" {
		return nil, nil
	}

	formatted, err := build.Format(ctx, executable, req.Environment.Options.FormatterLineLength, doc.Text)
	if err != nil {
		o.logger.Warn("formatter invocation failed", slog.Any("err", err))
		return nil, nil
	}
	if formatted == doc.Text {
		return nil, nil
	}

	fullRange := o.byteRangeToLSP(doc, 0, len(doc.Text))
	return []protocol.TextEdit{{Range: fullRange, NewText: formatted}}, nil
}
