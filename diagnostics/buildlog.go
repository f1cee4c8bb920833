package diagnostics

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/texls-project/texls/diag"
	"github.com/texls-project/texls/location"
)

// warningLinePattern matches the two common "...Warning: ... on input line
// N." shapes LaTeX and packages emit (e.g. "LaTeX Warning: Reference `fig1'
// undefined on input line 12." or "Package hyperref Warning: ... on input
// line 12.").
var warningLinePattern = regexp.MustCompile(`(?:LaTeX|Package [A-Za-z0-9_-]+) Warning: (.+?) on input line (\d+)\.`)

// texErrorLinePattern matches a fatal compiler error, which starts a line
// with "! " and is followed a few lines later by "l.N <source line>" giving
// the offending line number.
var texErrorLinePattern = regexp.MustCompile(`^! (.+)$`)

// errorLineNumberPattern matches the "l.N " marker that follows a "!" error
// in the log, within the next few lines.
var errorLineNumberPattern = regexp.MustCompile(`^l\.(\d+)`)

// ParseBuildLog scans a compiler build log (the latexmk/pdflatex .log text)
// for warnings and fatal errors, attributing every finding to rootURI since
// the plain-text log format doesn't reliably attribute errors across
// \input-ed files without a real TeX engine's file-stack tracking. The
// result is ready to hand to Manager.AbsorbBuildLog.
func ParseBuildLog(rootURI string, rootSource location.SourceID, log string) map[string][]diag.Issue {
	var issues []diag.Issue

	lines := strings.Split(log, "\n")
	for i, line := range lines {
		if m := warningLinePattern.FindStringSubmatch(line); m != nil {
			lineNum, _ := strconv.Atoi(m[2])
			issues = append(issues, diag.NewIssue(diag.Warning, diag.E_BUILD_LOG_WARNING, m[1]).
				WithSpan(location.Point(rootSource, lineNum, 1)).
				WithDetail(diag.DetailKeyLogLine, strconv.Itoa(i+1)).
				Build())
			continue
		}
		if m := texErrorLinePattern.FindStringSubmatch(line); m != nil {
			lineNum := findErrorLineNumber(lines, i)
			// A fatal error with no l.N marker still has to surface; the
			// renderer drops span-less issues, so anchor it at the top of
			// the document instead.
			span := location.Point(rootSource, 1, 1)
			if lineNum > 0 {
				span = location.Point(rootSource, lineNum, 1)
			}
			issues = append(issues, diag.NewIssue(diag.Error, diag.E_BUILD_LOG_ERROR, m[1]).
				WithSpan(span).
				Build())
		}
	}

	if len(issues) == 0 {
		return map[string][]diag.Issue{}
	}
	return map[string][]diag.Issue{rootURI: issues}
}

// findErrorLineNumber looks a short distance past a "!" error line for the
// "l.N" marker TeX prints alongside the erroring source line.
func findErrorLineNumber(lines []string, errIdx int) int {
	for j := errIdx + 1; j < len(lines) && j < errIdx+6; j++ {
		if m := errorLineNumberPattern.FindStringSubmatch(lines[j]); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n
		}
	}
	return 0
}
