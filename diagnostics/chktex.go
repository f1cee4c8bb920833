package diagnostics

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/texls-project/texls/diag"
	"github.com/texls-project/texls/location"
)

// chktexFormat asks ChkTeX for one machine-readable line per finding:
// line:column:length:kind:rule-number:message. The -I0 flag stops it from
// reading \input-ed files itself; inclusion traversal is the workspace
// graph's job, and each included document gets its own linter run.
const chktexFormat = `%l:%c:%d:%k:%n:%m` + "\n"

// RunChkTeX lints text by piping it to the executable (normally "chktex")
// on stdin, with workDir as the working directory so the tool can find a
// project-local .chktexrc. Findings are attributed to src. A tool that
// cannot be started at all is reported as an error; callers surface that as
// a single E_LINTER_FAILED issue rather than dropping the failure silently.
func RunChkTeX(ctx context.Context, executable, workDir string, src location.SourceID, text string) ([]diag.Issue, error) {
	cmd := exec.CommandContext(ctx, executable, "-I0", "-f"+chktexFormat)
	if workDir != "" {
		cmd.Dir = workDir
	}
	cmd.Stdin = strings.NewReader(text)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	// ChkTeX exits non-zero when it emits warnings; only a run that
	// produced no parseable output is a real failure.
	err := cmd.Run()
	if err != nil && stdout.Len() == 0 {
		return nil, fmt.Errorf("run %s: %w", executable, err)
	}
	return parseChkTeXOutput(src, stdout.String()), nil
}

// parseChkTeXOutput decodes chktexFormat lines. Lines that don't match the
// format (banner text, truncated output) are skipped rather than failing
// the whole run.
func parseChkTeXOutput(src location.SourceID, out string) []diag.Issue {
	var issues []diag.Issue
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 6)
		if len(parts) != 6 {
			continue
		}
		lineNum, err1 := strconv.Atoi(parts[0])
		col, err2 := strconv.Atoi(parts[1])
		length, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || lineNum < 1 || col < 1 {
			continue
		}
		msg := parts[5]
		if msg == "" {
			continue
		}

		severity := diag.Warning
		switch parts[3] {
		case "Error":
			severity = diag.Error
		case "Message":
			severity = diag.Info
		}

		span := location.Point(src, lineNum, col)
		if length > 0 {
			span = location.Range(src, lineNum, col, lineNum, col+length)
		}
		issues = append(issues, diag.NewIssue(severity, diag.E_LINTER_WARNING, msg).
			WithSpan(span).
			WithDetail("linter_rule", parts[4]).
			Build())
	}
	return issues
}

// LinterFailure is the single issue pushed into a document's linter buffer
// when the linter could not run at all. The user opted into linting
// explicitly (chktex.onEdit / chktex.onOpenAndSave), so a missing or broken
// chktex install is worth a visible diagnostic, anchored at the top of the
// document since the failure has no position of its own.
func LinterFailure(src location.SourceID, err error) diag.Issue {
	return diag.NewIssue(diag.Warning, diag.E_LINTER_FAILED, fmt.Sprintf("chktex did not run: %v", err)).
		WithSpan(location.Point(src, 1, 1)).
		Build()
}
