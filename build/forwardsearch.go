package build

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/texls-project/texls/config"
)

// ForwardSearchStatus tells the client "the tool ran and succeeded" apart
// from "nothing is configured", so it can decide whether to show a setup
// hint.
type ForwardSearchStatus int

const (
	ForwardSearchSuccess ForwardSearchStatus = iota
	ForwardSearchError
	ForwardSearchFailure
	ForwardSearchUnconfigured
)

// ForwardSearchResult is returned from ForwardSearch.
type ForwardSearchResult struct {
	Status ForwardSearchStatus
}

// String renders the status using the wire vocabulary the
// textDocument/forwardSearch result carries: SUCCESS, ERROR, FAILURE,
// UNCONFIGURED.
func (s ForwardSearchStatus) String() string {
	switch s {
	case ForwardSearchSuccess:
		return "SUCCESS"
	case ForwardSearchError:
		return "ERROR"
	case ForwardSearchFailure:
		return "FAILURE"
	case ForwardSearchUnconfigured:
		return "UNCONFIGURED"
	default:
		return "ERROR"
	}
}

// ForwardSearch invokes the configured inverse-search viewer to jump from
// texLine in texPath to the corresponding location in pdfPath. It never
// blocks on the viewer exiting in the way Build blocks on the compiler:
// most PDF viewers used for forward search are long-running GUI
// applications, so a synchronous Wait would hang the request.
func ForwardSearch(ctx context.Context, opts config.ForwardSearchOptions, pdfPath, texPath string, texLine int) ForwardSearchResult {
	if opts.Executable == "" || len(opts.Args) == 0 {
		return ForwardSearchResult{Status: ForwardSearchUnconfigured}
	}

	args := make([]string, len(opts.Args))
	for i, a := range opts.Args {
		args[i] = expandForwardSearchArg(a, pdfPath, texPath, texLine)
	}

	cmd := exec.CommandContext(ctx, opts.Executable, args...)
	if err := cmd.Start(); err != nil {
		return ForwardSearchResult{Status: ForwardSearchError}
	}
	go cmd.Wait() // reap without blocking the caller

	return ForwardSearchResult{Status: ForwardSearchSuccess}
}

// expandForwardSearchArg substitutes the placeholders documented for
// forwardSearch.args: %p the PDF path, %f the source path, %l the 1-based
// line number.
func expandForwardSearchArg(arg, pdfPath, texPath string, texLine int) string {
	r := strings.NewReplacer(
		"%p", pdfPath,
		"%f", texPath,
		"%l", strconv.Itoa(texLine),
	)
	return r.Replace(arg)
}

// ValidateForwardSearchOptions reports a descriptive error when Executable
// is set without Args, a misconfiguration forward search would otherwise
// silently treat as unconfigured; surfacing it at configuration time gives
// the user something actionable.
func ValidateForwardSearchOptions(opts config.ForwardSearchOptions) error {
	if opts.Executable != "" && len(opts.Args) == 0 {
		return fmt.Errorf("forwardSearch.executable is set but forwardSearch.args is empty")
	}
	return nil
}
