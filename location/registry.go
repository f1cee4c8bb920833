package location

// PositionRegistry provides byte-offset-to-position conversion.
//
// This interface is the bridge between code that converts positions and
// whatever holds the actual document text. It lets a producer that only has a byte offset
// into a document — a regex match, a scanner cursor — recover the
// line/column Position a protocol.Diagnostic needs, without depending on the
// workspace store directly.
//
// The primary implementation is internal/source.Registry, which texls keeps
// as the one place document text is registered for offset math, independent
// of workspace.Store's own document map.
//
// Design rationale:
//
//  1. Foundation tier placement: PositionRegistry is defined in location
//     (foundation tier) because the interface operates on location.Position and
//     location.SourceID â€” natural cohesion with the location package.
//
//  2. Decouples consumers from storage: code that needs only
//     offset-to-position conversion can depend on this interface rather
//     than on internal/source.Registry's concrete type, which enables testing
//     with mock registries. In this module, syntax.Check and the lsp
//     position helpers take *source.Registry directly, and
//     diagnostics.ParseBuildLog takes no registry.
//
//  3. Enables producer independence: a producer can be exercised in tests
//     that never construct a real workspace.Store.
type PositionRegistry interface {
	// PositionAt converts a byte offset to a Position for the given source.
	//
	// Returns a zero Position (check via IsZero()) if:
	//   - The source is not registered
	//   - The byte offset is out of range
	//   - The byte offset is negative
	//
	// The returned Position has:
	//   - Line: 1-based line number
	//   - Column: 1-based rune offset from line start
	//   - Byte: The input byteOffset (echoed back for convenience)
	PositionAt(source SourceID, byteOffset int) Position
}

// RuneOffsetConverter provides rune-to-byte offset conversion.
//
// Go's regexp and utf8 packages naturally report match positions as rune
// (character) indices, but every location.Span and internal/source.Registry
// lookup texls uses elsewhere is byte-offset based, for consistency with Go
// strings and UTF-8 handling. This interface is the conversion point a
// future rune-indexed scanner would use to turn its match positions into
// bytes before building a Span; workspace's own scanners already work in
// byte offsets directly and so don't need it, but it's kept as the
// documented seam for one that doesn't.
//
// The primary implementation is internal/source.Registry.
type RuneOffsetConverter interface {
	// RuneToByteOffset converts a rune offset to a byte offset for the given source.
	//
	// Returns (byteOffset, true) on success.
	// Returns (0, false) if:
	//   - The source is not registered
	//   - The rune offset is out of range
	//   - The rune offset is negative
	RuneToByteOffset(source SourceID, runeOffset int) (byteOffset int, ok bool)
}
