// Package workspace holds the document store and inclusion graph: the
// shared, incrementally maintained model of open and transitively-included
// LaTeX/BibTeX documents that feature handlers read snapshots of.
package workspace

import (
	"path/filepath"
	"strings"

	"github.com/texls-project/texls/location"
)

// Language identifies the kind of content a Document holds.
type Language string

const (
	LaTeX     Language = "latex"
	BibTeX    Language = "bibtex"
	BuildLog  Language = "build-log"
	Auxiliary Language = "auxiliary"
)

// LanguageByID maps an LSP languageId to a Language, mirroring the client's
// own notion of file type when present.
func LanguageByID(languageID string) (Language, bool) {
	switch languageID {
	case "latex", "tex":
		return LaTeX, true
	case "bibtex", "bib":
		return BibTeX, true
	default:
		return "", false
	}
}

// LanguageByExtension infers a Language from a file extension. Unknown
// extensions default to LaTeX, per language inference table.
func LanguageByExtension(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".log", ".blg":
		return BuildLog
	case ".bib":
		return BibTeX
	case ".aux", ".fls", ".fdb_latexmk":
		return Auxiliary
	default:
		return LaTeX
	}
}

// InclusionRef is a raw, unresolved inclusion reference extracted from a
// document's syntax: a target path string plus the extension that should be
// tried when the literal target does not exist verbatim (e.g. \input of a
// path without extension implies ".tex"; \bibliography implies ".bib").
type InclusionRef struct {
	Target       string
	SearchExt    string
	IsBibliography bool
}

// Document is an immutable snapshot: text, language, and the raw inclusion
// references derived from its syntax. Replacing a Document (via Store.Open)
// never mutates an existing value in place, so a handler holding one is safe
// for its entire lifetime.
type Document struct {
	URI        string
	Language   Language
	Text       string
	SourceID   location.SourceID
	Inclusions []InclusionRef
	// Synthetic marks a Document loaded only transitively via inclusion
	// resolution, never opened explicitly by the client.
	Synthetic bool
}

// newDocument parses text into a Document. Parsing never fails:
// extractInclusions is a lightweight scan that skips whatever it does not
// recognize, so raw inclusion extraction degrades gracefully on garbled
// text rather than rejecting it. BibTeX documents carry no inclusions.
func newDocument(uri string, text string, lang Language, synthetic bool) Document {
	var inclusions []InclusionRef
	if lang == LaTeX {
		inclusions = extractInclusions(text)
	} else if lang == BibTeX {
		inclusions = nil
	}
	return Document{
		URI:        uri,
		Language:   lang,
		Text:       text,
		SourceID:   DocumentSourceID(uri),
		Inclusions: inclusions,
		Synthetic:  synthetic,
	}
}

// DocumentSourceID derives the location.SourceID a document's URI maps to:
// file-backed when the URI resolves to a filesystem path, synthetic
// otherwise.
func DocumentSourceID(uri string) location.SourceID {
	if path, err := URIToPath(uri); err == nil {
		return location.MustSourceIDFromPath(path)
	}
	return location.MustNewSourceID(uri)
}

// inclusionCommand describes one LaTeX inclusion-producing macro: its name,
// the extension implied when the literal path doesn't resolve verbatim, and
// whether it names a bibliography. A bracketed option group before the path
// argument is skipped by skipBracketOption.
type inclusionCommand struct {
	name         string
	searchExt    string
	isBibliography bool
}

var inclusionCommands = []inclusionCommand{
	{"input", ".tex", false},
	{"include", ".tex", false},
	{"import", ".tex", false},
	{"subimport", ".tex", false},
	{"bibliography", ".bib", true},
	{"addbibresource", ".bib", true},
}

// extractInclusions does a lightweight pattern scan for \cmd{arg} (and
// \cmd[opts]{arg}) occurrences of the known inclusion-producing macros. This
// is deliberately not a real parser, since every downstream consumer (the
// inclusion graph) only needs the shape of a raw inclusion reference.
func extractInclusions(text string) []InclusionRef {
	var refs []InclusionRef
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			continue
		}
		for _, cmd := range inclusionCommands {
			name := cmd.name
			end := i + 1 + len(name)
			if end > len(text) || text[i+1:end] != name {
				continue
			}
			pos := end
			pos = skipBracketOption(text, pos)
			targets, next, ok := readBraceArgument(text, pos)
			if !ok {
				continue
			}
			for _, target := range strings.Split(targets, ",") {
				target = strings.TrimSpace(target)
				if target == "" {
					continue
				}
				refs = append(refs, InclusionRef{
					Target:         target,
					SearchExt:      cmd.searchExt,
					IsBibliography: cmd.isBibliography,
				})
			}
			i = next - 1
			break
		}
	}
	return refs
}

// InclusionOccurrence is one raw inclusion macro invocation with its byte
// span, used by documentLink to place a clickable range over each
// \input/\include/\bibliography argument.
type InclusionOccurrence struct {
	InclusionRef
	Start, End int // [Start, End) spans the whole \cmd{...} invocation
	ArgStart   int // byte offset of the first byte inside the argument braces
}

// ExtractInclusionOccurrences does the same scan as extractInclusions but
// retains byte positions, used by documentLink to produce one link per
// target. A macro with comma-separated targets yields one occurrence per
// target, all carrying the invocation's Start, End and ArgStart.
func ExtractInclusionOccurrences(text string) []InclusionOccurrence {
	var out []InclusionOccurrence
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			continue
		}
		for _, cmd := range inclusionCommands {
			name := cmd.name
			end := i + 1 + len(name)
			if end > len(text) || text[i+1:end] != name {
				continue
			}
			pos := skipBracketOption(text, end)
			targets, next, ok := readBraceArgument(text, pos)
			if !ok {
				continue
			}
			argStart := pos + 1
			for _, target := range strings.Split(targets, ",") {
				trimmed := strings.TrimSpace(target)
				if trimmed == "" {
					continue
				}
				out = append(out, InclusionOccurrence{
					InclusionRef: InclusionRef{Target: trimmed, SearchExt: cmd.searchExt, IsBibliography: cmd.isBibliography},
					Start:        i,
					End:          next,
					ArgStart:     argStart,
				})
			}
			i = next - 1
			break
		}
	}
	return out
}

func skipBracketOption(text string, pos int) int {
	if pos >= len(text) || text[pos] != '[' {
		return pos
	}
	depth := 0
	for j := pos; j < len(text); j++ {
		switch text[j] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	return pos
}

func readBraceArgument(text string, pos int) (arg string, next int, ok bool) {
	if pos >= len(text) || text[pos] != '{' {
		return "", pos, false
	}
	depth := 0
	start := pos + 1
	for j := pos; j < len(text); j++ {
		switch text[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start:j], j + 1, true
			}
		}
	}
	return "", pos, false
}
