package lsp

// PositionEncoding identifies the unit LSP character offsets are measured
// in, negotiated during initialize via
// general.positionEncodings/general.positionEncoding. texls only ever
// offers the two kinds LSP clients actually send.
type PositionEncoding string

const (
	// PositionEncodingUTF16 is the LSP default: character offsets count
	// UTF-16 code units from the start of the line.
	PositionEncodingUTF16 PositionEncoding = "utf-16"

	// PositionEncodingUTF8 counts bytes from the start of the line, which a
	// client may negotiate to avoid UTF-16 conversion entirely.
	PositionEncodingUTF8 PositionEncoding = "utf-8"
)
