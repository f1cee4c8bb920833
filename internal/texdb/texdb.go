// Package texdb holds the bundled LaTeX command database: a small, fixed
// dataset built once at process start and thereafter read-only, consulted
// by completion and hover. It is the only process-wide table besides the
// logger.
package texdb

import "sort"

// Command describes one known LaTeX control sequence offered by completion
// and shown by hover.
type Command struct {
	// Name is the control sequence without its leading backslash, e.g.
	// "documentclass".
	Name string
	// Snippet is the insertion text, LSP snippet-syntax placeholders
	// included (e.g. "documentclass{$1}").
	Snippet string
	// Detail is a one-line signature shown alongside the label.
	Detail string
	// Documentation is shown in hover and completion-item documentation.
	Documentation string
}

// commands is the fixed dataset, sorted by Name at init so lookups that
// iterate it produce a deterministic order.
var commands = []Command{
	{"documentclass", "documentclass{$1}", "\\documentclass[options]{class}", "Declares the document class; must be the first command in a LaTeX source file."},
	{"usepackage", "usepackage{$1}", "\\usepackage[options]{package}", "Loads a package into the current document."},
	{"begin", "begin{$1}", "\\begin{environment}", "Opens an environment; must be matched by a corresponding \\end."},
	{"end", "end{$1}", "\\end{environment}", "Closes the innermost open environment."},
	{"section", "section{$1}", "\\section{title}", "Starts a new section with the given title."},
	{"subsection", "subsection{$1}", "\\subsection{title}", "Starts a new subsection."},
	{"label", "label{$1}", "\\label{name}", "Attaches a cross-reference name to the enclosing context."},
	{"ref", "ref{$1}", "\\ref{name}", "References a \\label by name, expanding to its number."},
	{"cite", "cite{$1}", "\\cite{key}", "Cites a BibTeX entry by key."},
	{"input", "input{$1}", "\\input{file}", "Textually includes another LaTeX source file."},
	{"include", "include{$1}", "\\include{file}", "Includes another LaTeX source file, starting a new page."},
	{"bibliography", "bibliography{$1}", "\\bibliography{file}", "Names the BibTeX database(s) to draw \\cite entries from."},
	{"textbf", "textbf{$1}", "\\textbf{text}", "Typesets text in bold face."},
	{"textit", "textit{$1}", "\\textit{text}", "Typesets text in italics."},
	{"item", "item ", "\\item", "Starts a new item in a list environment."},
	{"caption", "caption{$1}", "\\caption{text}", "Sets the caption of a figure or table."},
	{"newcommand", "newcommand{\\\\$1}{$2}", "\\newcommand{\\name}{definition}", "Defines a new command."},
	{"frac", "frac{$1}{$2}", "\\frac{numerator}{denominator}", "Typesets a fraction."},
}

func init() {
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
}

// All returns every known command. The returned slice is a copy of the
// fixed dataset; callers may not mutate the package's own table through it.
func All() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// ByName looks up a single command by its control sequence name (without
// the leading backslash).
func ByName(name string) (Command, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// WithPrefix returns every command whose name starts with prefix, in
// dataset order (already sorted by name).
func WithPrefix(prefix string) []Command {
	var out []Command
	for _, c := range commands {
		if len(prefix) <= len(c.Name) && c.Name[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}
