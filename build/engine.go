// Package build coordinates compiler invocations for a project root:
// builds for one root are serialized and coalesced, and tool output is
// streamed back to the caller line by line.
package build

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/texls-project/texls/config"
)

// Status is the build outcome a client needs to distinguish to decide
// whether to keep waiting or retry.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
	StatusFailure
	StatusCancelled
)

// String renders the status using the wire vocabulary the
// textDocument/build result carries: SUCCESS, ERROR, FAILURE, CANCELLED.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusError:
		return "ERROR"
	case StatusFailure:
		return "FAILURE"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "ERROR"
	}
}

// Result is returned from Build.
type Result struct {
	Status Status
}

// LogSink receives a line of compiler stdout/stderr as it streams, so the
// session orchestrator can forward it as an LSP log message without the
// build engine depending on glsp.
type LogSink func(line string)

// Engine serializes builds per canonical root path: a build already
// in-flight for a root is reused by a second request for the same root
// instead of starting a redundant compiler invocation, so one project
// never has concurrent compiler processes.
type Engine struct {
	logger *slog.Logger

	mu      sync.Mutex
	running map[string]*inflight
}

type inflight struct {
	wg     sync.WaitGroup
	result Result
	err    error
}

// NewEngine returns an Engine logging through logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:  logger.With(slog.String("component", "build")),
		running: make(map[string]*inflight),
	}
}

// Build runs (or joins an already-running build of) rootPath using opts,
// streaming compiler output to sink. The context governs cancellation of a
// newly started build only; a caller joining an in-flight build observes
// whatever outcome that build reaches regardless of its own context.
func (e *Engine) Build(ctx context.Context, rootPath string, opts config.BuildOptions, sink LogSink) (Result, error) {
	e.mu.Lock()
	if f, ok := e.running[rootPath]; ok {
		e.mu.Unlock()
		f.wg.Wait()
		return f.result, f.err
	}
	f := &inflight{}
	f.wg.Add(1)
	e.running[rootPath] = f
	e.mu.Unlock()

	result, err := e.run(ctx, rootPath, opts, sink)
	f.result, f.err = result, err
	f.wg.Done()

	e.mu.Lock()
	delete(e.running, rootPath)
	e.mu.Unlock()

	return result, err
}

func (e *Engine) run(ctx context.Context, rootPath string, opts config.BuildOptions, sink LogSink) (Result, error) {
	executable := opts.Executable
	if executable == "" {
		executable = "latexmk"
	}
	args := opts.Args
	if len(args) == 0 {
		args = []string{"-pdf", "-interaction=nonstopmode", "-synctex=1"}
	}
	// "%f" in an argument stands for the root document; when no argument
	// carries it, the root path is appended as the last argument.
	expanded := make([]string, 0, len(args)+1)
	hasInput := false
	for _, arg := range args {
		if strings.Contains(arg, "%f") {
			hasInput = true
			arg = strings.ReplaceAll(arg, "%f", rootPath)
		}
		expanded = append(expanded, arg)
	}
	if !hasInput {
		expanded = append(expanded, rootPath)
	}
	args = expanded

	cmd := exec.CommandContext(ctx, executable, args...)
	// Run where the root document lives; relative aux-directory settings
	// and \input paths in the document resolve against it.
	if dir := filepath.Dir(rootPath); dir != "" {
		cmd.Dir = dir
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{Status: StatusError}, fmt.Errorf("build %s: %w", rootPath, err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		// A missing or unrunnable compiler is an expected condition the
		// client distinguishes by status, not a transport-level error.
		e.logger.Warn("compiler did not start", slog.String("executable", executable), slog.Any("err", err))
		return Result{Status: StatusError}, nil
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var output strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		output.WriteString(line)
		output.WriteByte('\n')
		if sink != nil {
			sink(line)
		}
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return Result{Status: StatusCancelled}, ctx.Err()
	}
	if waitErr != nil {
		e.logger.Warn("compiler exited non-zero", slog.String("root", rootPath), slog.Any("err", waitErr))
		return Result{Status: StatusFailure}, nil
	}
	return Result{Status: StatusSuccess}, nil
}

// Parsing compiler/build-log text into diagnostics lives in the
// diagnostics package (ParseBuildLog), which consumes the same log text
// this engine streams line-by-line through LogSink.
