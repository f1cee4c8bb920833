// Package syntax runs the lightweight structural checks the session loop
// fires on every edit: \begin/\end environment matching, which the
// document scanner in the workspace package is cheap enough to verify
// without a full LaTeX parse, grounded on the diag package's code taxonomy
// (diag.E_UNCLOSED_ENVIRONMENT and friends).
package syntax

import (
	"fmt"

	"github.com/texls-project/texls/diag"
	"github.com/texls-project/texls/internal/source"
	"github.com/texls-project/texls/location"
	"github.com/texls-project/texls/workspace"
)

// Check runs structural checks against doc's text, producing diagnostics
// for unclosed, mismatched, and stray environment delimiters. sources
// provides byte-offset-to-position conversion; the document's content must
// already be registered there under doc.SourceID.
func Check(doc workspace.Document, sources *source.Registry) []diag.Issue {
	begins := workspace.ScanCommand(doc.Text, "begin")
	ends := workspace.ScanCommand(doc.Text, "end")

	type marker struct {
		occ   workspace.Occurrence
		isEnd bool
	}
	markers := make([]marker, 0, len(begins)+len(ends))
	for _, b := range begins {
		markers = append(markers, marker{occ: b})
	}
	for _, e := range ends {
		markers = append(markers, marker{occ: e, isEnd: true})
	}
	for i := 1; i < len(markers); i++ {
		for j := i; j > 0 && markers[j-1].occ.Start > markers[j].occ.Start; j-- {
			markers[j-1], markers[j] = markers[j], markers[j-1]
		}
	}

	var issues []diag.Issue
	var stack []workspace.Occurrence
	for _, m := range markers {
		if !m.isEnd {
			stack = append(stack, m.occ)
			continue
		}
		if len(stack) == 0 {
			issues = append(issues, diag.NewIssue(diag.Error, diag.E_UNEXPECTED_END,
				fmt.Sprintf(`unexpected "\end{%s}" with no matching "\begin"`, m.occ.Arg)).
				WithSpan(spanFor(sources, doc.SourceID, m.occ.Start, m.occ.End)).
				Build())
			continue
		}
		top := stack[len(stack)-1]
		if top.Arg == m.occ.Arg {
			stack = stack[:len(stack)-1]
			continue
		}
		issues = append(issues, diag.NewIssue(diag.Error, diag.E_MISMATCHED_ENVIRONMENT,
			fmt.Sprintf(`"\end{%s}" does not match the innermost open environment "%s"`, m.occ.Arg, top.Arg)).
			WithSpan(spanFor(sources, doc.SourceID, m.occ.Start, m.occ.End)).
			WithDetails(diag.EnvironmentMismatch(top.Arg, m.occ.Arg)...).
			Build())
		stack = stack[:len(stack)-1]
	}

	for _, unclosed := range stack {
		issues = append(issues, diag.NewIssue(diag.Error, diag.E_UNCLOSED_ENVIRONMENT,
			fmt.Sprintf(`environment "%s" is never closed`, unclosed.Arg)).
			WithSpan(spanFor(sources, doc.SourceID, unclosed.Start, unclosed.End)).
			WithDetail(diag.DetailKeyEnvironment, unclosed.Arg).
			Build())
	}

	return issues
}

func spanFor(sources *source.Registry, id location.SourceID, start, end int) location.Span {
	startPos := sources.PositionAt(id, start)
	endPos := sources.PositionAt(id, end)
	if !startPos.IsKnown() {
		return location.Span{Source: id}
	}
	if !endPos.IsKnown() {
		endPos = startPos
	}
	return location.RangeWithBytes(id, startPos.Line, startPos.Column, startPos.Byte, endPos.Line, endPos.Column, endPos.Byte)
}
