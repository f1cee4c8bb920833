package workspace

import "strings"

// Occurrence is one \name{arg} invocation found by ScanCommand, with its
// byte offsets into the owning document's text so callers can convert to
// LSP ranges.
type Occurrence struct {
	Name       string
	Arg        string
	Start, End int // [Start, End) spans the whole \name{arg} invocation
	ArgStart   int // byte offset of the first byte of Arg
}

// sectioningCommands lists the sectioning macros, ordered outermost first,
// used by ExtractSections to assign a nesting Level.
var sectioningCommands = []string{
	"part", "chapter", "section", "subsection", "subsubsection", "paragraph", "subparagraph",
}

// Section describes one sectioning command found in a document.
type Section struct {
	Title string
	Level int
	Occurrence
}

// ExtractSections scans text for sectioning commands (\section{...} and
// friends), returning them in document order.
func ExtractSections(text string) []Section {
	occs := ScanCommand(text, sectioningCommands...)
	out := make([]Section, 0, len(occs))
	for _, occ := range occs {
		level := 0
		for i, name := range sectioningCommands {
			if name == occ.Name {
				level = i
				break
			}
		}
		out = append(out, Section{Title: occ.Arg, Level: level, Occurrence: occ})
	}
	return out
}

// ExtractLabelDefs finds every \label{name}.
func ExtractLabelDefs(text string) []Occurrence {
	return ScanCommand(text, "label")
}

// ExtractLabelRefs finds every \ref{name}, \eqref{name}, \autoref{name}, and
// \nameref{name} - every macro that resolves against a \label.
func ExtractLabelRefs(text string) []Occurrence {
	return ScanCommand(text, "ref", "eqref", "autoref", "nameref", "pageref")
}

// ExtractCiteRefs finds every \cite{key} (and its common variants).
func ExtractCiteRefs(text string) []Occurrence {
	return ScanCommand(text, "cite", "citep", "citet", "citeauthor", "citeyear")
}

// ExtractBibEntries finds every BibTeX entry key in a .bib document:
// "@article{key," and similar.
func ExtractBibEntries(text string) []Occurrence {
	var out []Occurrence
	for i := 0; i < len(text); i++ {
		if text[i] != '@' {
			continue
		}
		j := i + 1
		for j < len(text) && isIdentByte(text[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		entryType := text[i+1 : j]
		if strings.EqualFold(entryType, "comment") || strings.EqualFold(entryType, "string") || strings.EqualFold(entryType, "preamble") {
			continue
		}
		if j >= len(text) || text[j] != '{' {
			continue
		}
		keyStart := j + 1
		k := keyStart
		for k < len(text) && text[k] != ',' && text[k] != '}' {
			k++
		}
		key := strings.TrimSpace(text[keyStart:k])
		if key == "" {
			continue
		}
		out = append(out, Occurrence{Name: "@" + entryType, Arg: key, Start: i, End: k, ArgStart: keyStart})
		i = k - 1
	}
	return out
}

func isIdentByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// EnvironmentSpan is a matched \begin{name}...\end{name} pair.
type EnvironmentSpan struct {
	Name             string
	BeginStart       int
	BeginEnd         int
	EndStart         int
	EndEnd           int
	UnclosedEndLine  bool // true when no matching \end was found; EndStart/EndEnd are zero
}

// ExtractEnvironments matches \begin{name}/\end{name} pairs with a stack,
// the way a single-pass brace matcher would: unmatched opens are reported
// with UnclosedEndLine set instead of being silently dropped, so a syntax
// checker can flag them.
func ExtractEnvironments(text string) []EnvironmentSpan {
	begins := ScanCommand(text, "begin")
	ends := ScanCommand(text, "end")

	type marker struct {
		occ   Occurrence
		isEnd bool
	}
	markers := make([]marker, 0, len(begins)+len(ends))
	for _, b := range begins {
		markers = append(markers, marker{occ: b, isEnd: false})
	}
	for _, e := range ends {
		markers = append(markers, marker{occ: e, isEnd: true})
	}
	for i := 1; i < len(markers); i++ {
		for j := i; j > 0 && markers[j-1].occ.Start > markers[j].occ.Start; j-- {
			markers[j-1], markers[j] = markers[j], markers[j-1]
		}
	}

	var stack []marker
	var out []EnvironmentSpan
	for _, m := range markers {
		if !m.isEnd {
			stack = append(stack, m)
			continue
		}
		matched := -1
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].occ.Arg == m.occ.Arg {
				matched = i
				break
			}
		}
		if matched < 0 {
			continue
		}
		begin := stack[matched]
		stack = stack[:matched]
		out = append(out, EnvironmentSpan{
			Name:       begin.occ.Arg,
			BeginStart: begin.occ.Start,
			BeginEnd:   begin.occ.End,
			EndStart:   m.occ.Start,
			EndEnd:     m.occ.End,
		})
	}
	for _, unclosed := range stack {
		out = append(out, EnvironmentSpan{
			Name:            unclosed.occ.Arg,
			BeginStart:      unclosed.occ.Start,
			BeginEnd:        unclosed.occ.End,
			UnclosedEndLine: true,
		})
	}
	return out
}

// ScanCommand does a lightweight pattern scan for \name{arg} occurrences of
// any of the given command names, skipping a bracketed option group between
// the name and the brace argument. It shares extractInclusions' scanning
// style rather than a full tokenizer, since every caller here only needs
// the command name, its single brace argument, and their byte offsets.
func ScanCommand(text string, names ...string) []Occurrence {
	var out []Occurrence
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			continue
		}
		for _, name := range names {
			end := i + 1 + len(name)
			if end > len(text) || text[i+1:end] != name {
				continue
			}
			if end < len(text) && isIdentByte(text[end]) {
				continue // e.g. \references shouldn't match \ref
			}
			pos := skipBracketOption(text, end)
			arg, next, ok := readBraceArgument(text, pos)
			if !ok {
				continue
			}
			out = append(out, Occurrence{
				Name:     name,
				Arg:      strings.TrimSpace(arg),
				Start:    i,
				End:      next,
				ArgStart: pos + 1,
			})
			i = next - 1
			break
		}
	}
	return out
}
