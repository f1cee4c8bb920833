package session

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

func (o *Orchestrator) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	o.setNotify(ctx)
	uri := params.TextDocument.URI
	result, err := o.dispatchFeature("textDocument/foldingRange", uri, dispatch.NoPosition, dispatch.NoPosition)
	if err != nil || result == nil {
		return nil, err
	}
	ranges, _ := result.([]protocol.FoldingRange)
	return ranges, nil
}

// foldingRangeRequest folds every matched \begin/\end environment, plus
// each sectioning command's body (spanning to the byte just before the
// next sectioning command at the same or shallower level, or end of
// document).
func (o *Orchestrator) foldingRangeRequest(ctx context.Context, req dispatch.FeatureRequest) (any, error) {
	doc, ok := req.Document()
	if !ok || doc.Language != workspace.LaTeX {
		return nil, nil
	}

	regionKind := string(protocol.FoldingRangeKindRegion)
	var out []protocol.FoldingRange

	for _, env := range workspace.ExtractEnvironments(doc.Text) {
		if env.UnclosedEndLine {
			continue
		}
		out = append(out, o.foldingRangeFor(doc, env.BeginEnd, env.EndStart, &regionKind))
	}

	sections := workspace.ExtractSections(doc.Text)
	for i, sec := range sections {
		end := len(doc.Text)
		for j := i + 1; j < len(sections); j++ {
			if sections[j].Level <= sec.Level {
				end = sections[j].Start
				break
			}
		}
		if end <= sec.End {
			continue
		}
		out = append(out, o.foldingRangeFor(doc, sec.End, end, &regionKind))
	}

	return out, nil
}

func (o *Orchestrator) foldingRangeFor(doc workspace.Document, start, end int, kind *string) protocol.FoldingRange {
	rng := o.byteRangeToLSP(doc, start, end)
	return protocol.FoldingRange{
		StartLine:      rng.Start.Line,
		StartCharacter: &rng.Start.Character,
		EndLine:        rng.End.Line,
		EndCharacter:   &rng.End.Character,
		Kind:           kind,
	}
}
