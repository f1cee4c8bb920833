package build

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Format runs executable (latexindent, bibtex-tidy, or whatever the client
// configured as latexFormatter/bibtexFormatter) with text on stdin and its
// stdout as the formatted result, the same spawn-and-capture shape Build
// uses for the compiler. lineLength is passed as a trailing
// --line-length=N argument when positive; formatters that ignore unknown
// flags are expected to no-op it.
func Format(ctx context.Context, executable string, lineLength int, text string) (string, error) {
	if executable == "" {
		return "", fmt.Errorf("no formatter configured")
	}

	args := []string{}
	if lineLength > 0 {
		args = append(args, "--line-length="+strconv.Itoa(lineLength))
	}

	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Stdin = bytes.NewBufferString(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run formatter %s: %w: %s", executable, err, stderr.String())
	}
	return stdout.String(), nil
}
