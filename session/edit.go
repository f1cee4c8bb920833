package session

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// applyContentChanges merges a didChange notification's content changes
// into currentText: full replacement when a change carries no range,
// byte-offset splicing otherwise, with a full-text fallback when a range
// turns out to be invalid for the text it was computed against.
func applyContentChanges(currentText string, changes []interface{}) string {
	text := normalizeLineEndings(currentText)

	for _, raw := range changes {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = normalizeLineEndings(change.Text)
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				text = normalizeLineEndings(change.Text)
				continue
			}
			lines := strings.Split(text, "\n")
			startOffset := rangeToByteOffset(lines, int(change.Range.Start.Line), int(change.Range.Start.Character))
			endOffset := rangeToByteOffset(lines, int(change.Range.End.Line), int(change.Range.End.Character))

			if startOffset <= len(text) && endOffset <= len(text) && startOffset <= endOffset {
				text = text[:startOffset] + normalizeLineEndings(change.Text) + text[endOffset:]
			} else {
				text = normalizeLineEndings(change.Text)
			}
		}
	}
	return text
}

// rangeToByteOffset converts an LSP position (UTF-16 code units) to a byte
// offset within lines, the result of splitting the full document on "\n".
func rangeToByteOffset(lines []string, line, char int) int {
	offset := 0
	for i := 0; i < line && i < len(lines); i++ {
		offset += len(lines[i]) + 1
	}
	if line < len(lines) {
		offset += utf16CharToByteOffset([]byte(lines[line]), 0, char)
	}
	return offset
}

// utf16CharToByteOffset converts a UTF-16 character offset within a single
// line's bytes to a byte offset, mirroring lsp.ByteOffsetFromLSP's
// per-rune walk without requiring a populated source.Registry: didChange
// runs against text that isn't registered with one.
func utf16CharToByteOffset(line []byte, start, charOffset int) int {
	if charOffset <= 0 {
		return start
	}
	pos := start
	units := 0
	for pos < len(line) && units < charOffset {
		r, size := decodeRune(line[pos:])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		pos += size
	}
	return pos
}

func decodeRune(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}
	if b[0] < 0x80 {
		return rune(b[0]), 1
	}
	for size := 2; size <= 4 && size <= len(b); size++ {
		if r, n := decodeRuneN(b, size); n == size {
			return r, n
		}
	}
	return 0xFFFD, 1
}

// decodeRuneN decodes exactly size bytes as a UTF-8 rune, returning n == 0
// when the bytes don't form a valid encoding of that length.
func decodeRuneN(b []byte, size int) (rune, int) {
	if size == 2 && len(b) >= 2 && b[0]&0xE0 == 0xC0 && b[1]&0xC0 == 0x80 {
		return rune(b[0]&0x1F)<<6 | rune(b[1]&0x3F), 2
	}
	if size == 3 && len(b) >= 3 && b[0]&0xF0 == 0xE0 && b[1]&0xC0 == 0x80 && b[2]&0xC0 == 0x80 {
		return rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F), 3
	}
	if size == 4 && len(b) >= 4 && b[0]&0xF8 == 0xF0 && b[1]&0xC0 == 0x80 && b[2]&0xC0 == 0x80 && b[3]&0xC0 == 0x80 {
		return rune(b[0]&0x07)<<18 | rune(b[1]&0x3F)<<12 | rune(b[2]&0x3F)<<6 | rune(b[3]&0x3F), 4
	}
	return 0, 0
}

func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
