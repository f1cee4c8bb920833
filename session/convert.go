package session

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/location"
	"github.com/texls-project/texls/lsp"
	"github.com/texls-project/texls/workspace"
)

// byteRangeToLSP converts a [start, end) byte offset pair within doc's text
// into an LSP Range, going through the source registry for correct UTF-16
// accounting rather than assuming byte offset equals character offset.
func (o *Orchestrator) byteRangeToLSP(doc workspace.Document, start, end int) protocol.Range {
	startPos := o.sources.PositionAt(doc.SourceID, start)
	endPos := o.sources.PositionAt(doc.SourceID, end)
	if !startPos.IsKnown() {
		return protocol.Range{}
	}
	if !endPos.IsKnown() {
		endPos = startPos
	}
	span := location.RangeWithBytes(doc.SourceID, startPos.Line, startPos.Column, startPos.Byte, endPos.Line, endPos.Column, endPos.Byte)
	rangeStart, rangeEnd, ok := lsp.SpanToLSPRange(o.sources, span, lsp.PositionEncodingUTF16)
	if !ok {
		return protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(startPos.Line - 1), Character: protocol.UInteger(startPos.Column - 1)},
			End:   protocol.Position{Line: protocol.UInteger(endPos.Line - 1), Character: protocol.UInteger(endPos.Column - 1)},
		}
	}
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(rangeStart[0]), Character: protocol.UInteger(rangeStart[1])},
		End:   protocol.Position{Line: protocol.UInteger(rangeEnd[0]), Character: protocol.UInteger(rangeEnd[1])},
	}
}

// byteOffsetFromPosition converts an LSP position within uri's document
// into a byte offset, using the source registry for UTF-16 accounting.
func (o *Orchestrator) byteOffsetFromPosition(doc workspace.Document, line, char int) (int, bool) {
	return lsp.ByteOffsetFromLSP(o.sources, doc.SourceID, line, char, lsp.PositionEncodingUTF16)
}

// occurrenceAt returns the occurrence in occs whose [ArgStart, ArgStart+len(Arg)]
// span (end inclusive, so a cursor just past the last character of the
// argument still matches) contains byteOffset, used to find "which \ref{name} is the cursor
// inside of" across the handlers that resolve a symbol under the cursor.
func occurrenceAt(occs []workspace.Occurrence, byteOffset int) (workspace.Occurrence, bool) {
	for _, occ := range occs {
		if byteOffset >= occ.ArgStart && byteOffset <= occ.ArgStart+len(occ.Arg) {
			return occ, true
		}
	}
	return workspace.Occurrence{}, false
}
