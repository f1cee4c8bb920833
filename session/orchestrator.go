// Package session wires the LSP transport to the workspace, dispatch,
// diagnostics, and build packages into a single orchestrator loop: one
// goroutine owns every workspace mutation, and feature requests run
// against snapshots taken under that goroutine's lock.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
	"golang.org/x/sync/semaphore"

	_ "github.com/tliron/commonlog/simple" // required backend for glsp

	"github.com/texls-project/texls/build"
	"github.com/texls-project/texls/config"
	"github.com/texls-project/texls/diag"
	"github.com/texls-project/texls/diagnostics"
	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/distro"
	"github.com/texls-project/texls/internal/source"
	"github.com/texls-project/texls/location"
	"github.com/texls-project/texls/syntax"
	"github.com/texls-project/texls/watcher"
	"github.com/texls-project/texls/workspace"
)

const serverName = "texls"

// maxConcurrentFeatureRequests bounds the worker pool feature requests run
// on; a fixed size rather than GOMAXPROCS so tests get predictable
// behavior.
const maxConcurrentFeatureRequests = 8

// Orchestrator is the session: the single owner of workspace mutation plus
// everything needed to answer requests against snapshots of it.
type Orchestrator struct {
	logger *slog.Logger

	store    *workspace.Store
	registry *dispatch.Registry
	diags    *diagnostics.Manager
	builder  *build.Engine
	watch    *watcher.Watcher
	sources  *source.Registry

	mu sync.Mutex // serializes workspace mutation across glsp callbacks and internalCh

	internalCh chan internalMessage
	done       chan struct{}

	sem sync.WaitGroup
	cap *semaphore.Weighted

	// events receives every Store ChangeEvent; the diagnostic consumer
	// goroutine drains it without ever taking o.mu, so a blocked emit under
	// the lock always makes progress.
	events   chan workspace.ChangeEvent
	debounce *diagnostics.Debouncer
	delayMs  atomic.Int64

	handler protocol.Handler
	server  *glspserver.Server

	notifyMu sync.Mutex
	notify   func(method string, params any)

	shutdownCalled bool
	closeOnce      sync.Once
}

// New builds an Orchestrator rooted at cwd. Call Run to start its
// background loop and RunStdio to serve over stdio.
func New(logger *slog.Logger, cwd string) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	commonlog.Configure(0, nil)

	o := &Orchestrator{
		logger:     logger.With(slog.String("component", "session")),
		store:      workspace.NewStore(cwd),
		diags:      diagnostics.NewManager(),
		builder:    build.NewEngine(logger),
		sources:    source.NewRegistry(),
		internalCh: make(chan internalMessage, 64),
		done:       make(chan struct{}),
		cap:        semaphore.NewWeighted(maxConcurrentFeatureRequests),
		events:     make(chan workspace.ChangeEvent, 256),
	}
	o.registry = buildRegistry(o)
	o.delayMs.Store(int64(o.store.Environment.Options.DiagnosticsDelayMs))
	o.debounce = diagnostics.NewDebouncer(time.Duration(o.delayMs.Load())*time.Millisecond, o.publishAllDiagnostics)
	o.store.Subscribe(o.events)
	go o.consumeChanges()

	w, err := watcher.New(logger, 250*time.Millisecond)
	if err != nil {
		o.logger.Warn("file watcher unavailable", slog.Any("err", err))
	} else {
		o.watch = w
		o.store.SetWatchFunc(w.WatchDir)
	}

	o.handler = protocol.Handler{
		Initialize:    o.initialize,
		Initialized:   o.initialized,
		Shutdown:      o.shutdown,
		Exit:          o.exit,
		SetTrace:      o.setTrace,
		CancelRequest: o.cancelRequest,

		TextDocumentDidOpen:   o.textDocumentDidOpen,
		TextDocumentDidChange: o.textDocumentDidChange,
		TextDocumentDidSave:   o.textDocumentDidSave,
		TextDocumentDidClose:  o.textDocumentDidClose,

		WorkspaceDidChangeConfiguration:    o.workspaceDidChangeConfiguration,
		WorkspaceDidChangeWatchedFiles:     o.workspaceDidChangeWatchedFiles,
		WorkspaceDidChangeWorkspaceFolders: o.workspaceDidChangeWorkspaceFolders,

		TextDocumentHover:               o.textDocumentHover,
		TextDocumentCompletion:          o.textDocumentCompletion,
		CompletionItemResolve:           o.completionItemResolve,
		TextDocumentDefinition:          o.textDocumentDefinition,
		TextDocumentReferences:          o.textDocumentReferences,
		TextDocumentDocumentSymbol:      o.textDocumentDocumentSymbol,
		TextDocumentPrepareRename:       o.textDocumentPrepareRename,
		TextDocumentRename:              o.textDocumentRename,
		TextDocumentDocumentHighlight:   o.textDocumentDocumentHighlight,
		TextDocumentDocumentLink:        o.textDocumentDocumentLink,
		TextDocumentFoldingRange:        o.textDocumentFoldingRange,
		TextDocumentFormatting:          o.textDocumentFormatting,
		TextDocumentInlayHint:           o.textDocumentInlayHint,
		InlayHintResolve:                o.inlayHintResolve,
		WorkspaceSymbol:                 o.workspaceSymbol,
		WorkspaceExecuteCommand:         o.workspaceExecuteCommand,
		TextDocumentSemanticTokensRange: func(ctx *glsp.Context, params *protocol.SemanticTokensRangeParams) (any, error) {
			return o.textDocumentSemanticTokensRange(ctx, params)
		},
	}
	o.server = glspserver.NewServer(&customHandler{Handler: o.handler, o: o}, serverName, false)

	return o
}

// Handler exposes the protocol handler so tests can drive it directly
// without a real transport.
func (o *Orchestrator) Handler() *protocol.Handler {
	return &o.handler
}

// RunStdio serves the session over stdio until the connection closes.
func (o *Orchestrator) RunStdio() error {
	if err := o.server.RunStdio(); err != nil {
		return fmt.Errorf("run stdio: %w", err)
	}
	return nil
}

// Run drains internalCh, applying background-originated events with the
// same mutual exclusion as direct protocol notifications. It should run on
// its own goroutine for the orchestrator's lifetime.
func (o *Orchestrator) Run() {
	if o.watch != nil {
		go o.watch.Run()
		go o.pumpWatcherEvents()
	}
	for {
		select {
		case msg := <-o.internalCh:
			o.mu.Lock()
			msg.apply(o)
			o.mu.Unlock()
		case <-o.done:
			return
		}
	}
}

func (o *Orchestrator) pumpWatcherEvents() {
	for ev := range o.watch.Events {
		select {
		case o.internalCh <- fileEventMsg{event: ev}:
		case <-o.done:
			return
		}
	}
}

// Close stops the background loop, the diagnostic consumer, any pending
// debounce timer, and the file watcher. Idempotent.
func (o *Orchestrator) Close() error {
	o.closeOnce.Do(func() {
		close(o.done)
		o.debounce.Stop()
		if o.watch != nil {
			_ = o.watch.Close()
		}
		// Join the worker pool, bounded the same way main bounds its
		// signal-path shutdown: a wedged compiler subprocess must not be
		// able to hold the exit handshake hostage.
		drained := make(chan struct{})
		go func() {
			o.sem.Wait()
			close(drained)
		}()
		select {
		case <-drained:
		case <-time.After(2 * time.Second):
			o.logger.Warn("worker pool did not drain before shutdown")
		}
	})
	return nil
}

// consumeChanges is the diagnostic consumer: it reacts to every document
// replacement the Store publishes by registering the new text with the
// source registry (covering documents loaded lazily through inclusion
// resolution, which never pass through didOpen), re-running the syntactic
// checks, and arming the debounced publication. It holds no workspace lock
// at any point.
func (o *Orchestrator) consumeChanges() {
	for {
		select {
		case ev := <-o.events:
			o.sources.Replace(ev.Document.SourceID, []byte(ev.Document.Text))
			o.diags.PushSyntax(ev.URI, syntax.Check(ev.Document, o.sources))
			o.scheduleDiagnostics()
		case <-o.done:
			return
		}
	}
}

// setNotify installs the notification function captured from the most
// recent glsp.Context the client gave us; background work (debounced
// diagnostics, a completed distro detection) has no live request context
// of its own, so it reuses the handle captured by the latest request or
// notification that carried one.
func (o *Orchestrator) setNotify(ctx *glsp.Context) {
	if ctx == nil {
		return
	}
	o.notifyMu.Lock()
	o.notify = func(method string, params any) { ctx.Notify(method, params) }
	o.notifyMu.Unlock()
}

func (o *Orchestrator) sendNotification(method string, params any) {
	o.notifyMu.Lock()
	fn := o.notify
	o.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

// spawn runs fn on a bounded worker goroutine, blocking the caller until a
// slot is available; it never silently drops work the way an unbounded
// goroutine pool risks under load.
func (o *Orchestrator) spawn(fn func()) {
	_ = o.cap.Acquire(context.Background(), 1)
	o.sem.Add(1)
	go func() {
		defer o.cap.Release(1)
		defer o.sem.Done()
		fn()
	}()
}

func (o *Orchestrator) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	o.setNotify(ctx)
	o.logger.Info("initialize request received")

	switch {
	case params.WorkspaceFolders != nil:
		for _, folder := range params.WorkspaceFolders {
			o.store.AddRoot(folder.URI)
		}
	case params.RootURI != nil:
		o.store.AddRoot(*params.RootURI)
	}

	// glsp hands initializationOptions through as whatever encoding/json
	// produced for an untyped field, so re-marshal anything that isn't
	// already raw bytes before decoding it with the relaxed parser.
	var raw json.RawMessage
	switch v := params.InitializationOptions.(type) {
	case nil:
	case json.RawMessage:
		raw = v
	default:
		raw, _ = json.Marshal(v)
	}
	startup := config.ParseStartup(raw)
	if !startup.SkipDistro {
		o.spawnDistroDetection()
	}
	if len(raw) > 0 {
		if opts, err := config.Parse(raw); err == nil {
			o.store.Environment.Options = opts
			o.delayMs.Store(int64(opts.DiagnosticsDelayMs))
		}
	}

	if params.Capabilities.Workspace != nil {
		o.store.Environment.PullConfigSupported = params.Capabilities.Workspace.Configuration != nil && *params.Capabilities.Workspace.Configuration
		o.store.Environment.PushConfigSupported = true
	}
	if params.ClientInfo != nil {
		o.store.Environment.ClientInfo = workspace.ClientInfo{Name: params.ClientInfo.Name}
		if params.ClientInfo.Version != nil {
			o.store.Environment.ClientInfo.Version = *params.ClientInfo.Version
		}
	}

	capabilities := o.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	if syncOpts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		syncOpts.Change = &syncKind
		save := true
		syncOpts.Save = save
	}

	resolveProvider := true
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{`\`, "{", "}", "@", "/", " "},
		ResolveProvider:   &resolveProvider,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{"texlab.cleanAuxiliary", "texlab.cleanArtifacts"},
	}
	capabilities.RenameProvider = &protocol.RenameOptions{PrepareProvider: &resolveProvider}

	o.mu.Lock()
	o.installWatchLocked()
	o.mu.Unlock()

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (o *Orchestrator) spawnDistroDetection() {
	o.spawn(func() {
		resolved := distro.Detect()
		select {
		case o.internalCh <- setDistroMsg{resolver: resolved}:
		case <-o.done:
		}
	})
}

func (o *Orchestrator) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	o.setNotify(ctx)
	o.logger.Info("server initialized")
	return nil
}

func (o *Orchestrator) shutdown(ctx *glsp.Context) error {
	o.mu.Lock()
	o.shutdownCalled = true
	o.mu.Unlock()
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (o *Orchestrator) exit(ctx *glsp.Context) error {
	o.mu.Lock()
	called := o.shutdownCalled
	o.mu.Unlock()
	code := 0
	if !called {
		code = 1
	}
	_ = o.Close()
	os.Exit(code)
	return nil
}

func (o *Orchestrator) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (o *Orchestrator) cancelRequest(ctx *glsp.Context, params *protocol.CancelParams) error {
	return nil
}

// textDocumentSemanticTokensRange is acknowledged (the capability is
// advertised) but always answers empty: no semantic token legend is
// defined for LaTeX/BibTeX in this server, so tokenizing would only give
// clients something to render incorrectly.
func (o *Orchestrator) textDocumentSemanticTokensRange(ctx *glsp.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	o.setNotify(ctx)
	return &protocol.SemanticTokens{Data: []protocol.UInteger{}}, nil
}

func (o *Orchestrator) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	o.setNotify(ctx)
	o.mu.Lock()
	lang, ok := workspace.LanguageByID(params.TextDocument.LanguageID)
	if !ok {
		lang = workspace.LanguageByExtension(params.TextDocument.URI)
	}
	uri := params.TextDocument.URI
	o.sources.Replace(workspace.DocumentSourceID(uri), []byte(params.TextDocument.Text))
	o.store.Open(uri, params.TextDocument.Text, lang)
	o.store.Viewport(uri)
	opts := o.store.Environment.Options
	o.mu.Unlock()

	if opts.Chktex.OnOpenAndSave {
		o.spawnLinter(uri)
	}
	return nil
}

func (o *Orchestrator) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	o.setNotify(ctx)
	uri := params.TextDocument.URI

	o.mu.Lock()
	doc, ok := o.store.Get(uri)
	var text string
	if ok {
		text = applyContentChanges(doc.Text, params.ContentChanges)
	} else {
		text = ""
	}
	lang := workspace.LanguageByExtension(uri)
	if ok {
		lang = doc.Language
	}
	o.sources.Replace(workspace.DocumentSourceID(uri), []byte(text))
	o.store.Open(uri, text, lang)
	opts := o.store.Environment.Options
	o.mu.Unlock()

	if opts.Chktex.OnEdit {
		o.spawnLinter(uri)
	}
	return nil
}

func (o *Orchestrator) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	o.setNotify(ctx)
	uri := params.TextDocument.URI

	o.mu.Lock()
	opts := o.store.Environment.Options
	root := o.store.ProjectRoot(uri)
	cursorLine := 0
	if pos, ok := o.store.Cursor(uri); ok {
		cursorLine = pos.Line
	}
	o.mu.Unlock()

	if opts.Chktex.OnOpenAndSave {
		o.spawnLinter(uri)
	}
	if opts.Build.OnSave {
		o.spawn(func() {
			o.runBuild(root)
			if opts.Build.ForwardSearchAfter {
				o.runForwardSearch(root, uri, cursorLine)
			}
		})
	}
	return nil
}

func (o *Orchestrator) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	o.setNotify(ctx)
	o.mu.Lock()
	o.store.Close(params.TextDocument.URI)
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) workspaceDidChangeConfiguration(ctx *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	o.setNotify(ctx)
	raw, err := json.Marshal(params.Settings)
	if err != nil {
		return nil
	}
	opts, err := config.Parse(raw)
	if err != nil {
		o.logger.Warn("rejected malformed configuration push", slog.Any("err", err))
		o.sendNotification("window/showMessage", protocol.ShowMessageParams{
			Type:    protocol.MessageTypeWarning,
			Message: fmt.Sprintf("texls: ignoring malformed configuration: %s", err),
		})
		return nil
	}
	if verr := build.ValidateForwardSearchOptions(opts.ForwardSearch); verr != nil {
		o.sendNotification("window/showMessage", protocol.ShowMessageParams{
			Type:    protocol.MessageTypeWarning,
			Message: "texls: " + verr.Error(),
		})
	}
	// Routed through the internal channel rather than applied here so the
	// options install and the reparse it triggers interleave with file
	// events and distro detection in one serialized stream.
	select {
	case o.internalCh <- setOptionsMsg{options: opts}:
	case <-o.done:
	}
	return nil
}

// workspaceDidChangeWatchedFiles translates client-observed file changes
// into the same internal stream the server's own watcher feeds, so both
// sources of filesystem truth take the reload/remove path identically.
func (o *Orchestrator) workspaceDidChangeWatchedFiles(ctx *glsp.Context, params *protocol.DidChangeWatchedFilesParams) error {
	o.setNotify(ctx)
	for _, change := range params.Changes {
		if !workspace.IsLocalURI(change.URI) {
			continue
		}
		path, err := workspace.URIToPath(change.URI)
		if err != nil {
			continue
		}
		var kind watcher.EventKind
		switch int(change.Type) {
		case 1: // FileChangeType Created
			kind = watcher.Create
		case 2: // Changed
			kind = watcher.Modify
		case 3: // Deleted
			kind = watcher.Remove
		default:
			continue
		}
		select {
		case o.internalCh <- fileEventMsg{event: watcher.Event{Path: path, Kind: kind}}:
		case <-o.done:
			return nil
		}
	}
	return nil
}

func (o *Orchestrator) workspaceDidChangeWorkspaceFolders(ctx *glsp.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	o.setNotify(ctx)
	o.mu.Lock()
	for _, added := range params.Event.Added {
		o.store.AddRoot(added.URI)
	}
	for _, removed := range params.Event.Removed {
		o.store.RemoveRoot(removed.URI)
	}
	o.mu.Unlock()
	return nil
}

// handleFileEvent applies one debounced filesystem change, running under
// Run's lock. Create and modify reload the path (loading it fresh when the
// workspace has never seen it); remove drops the document, its buffers,
// and its published diagnostics.
func (o *Orchestrator) handleFileEvent(ev watcher.Event) {
	uri := workspace.PathToURI(ev.Path)
	switch ev.Kind {
	case watcher.Remove:
		o.store.Remove(uri)
		o.sources.Unregister(workspace.DocumentSourceID(uri))
		o.diags.Clear(uri)
		o.sendDiagnostics(uri, nil)
	default:
		var err error
		if _, known := o.store.Get(uri); known {
			err = o.store.Reload(ev.Path)
		} else {
			_, err = o.store.Load(ev.Path)
		}
		if err != nil {
			o.logger.Warn("reload failed", slog.String("path", ev.Path), slog.Any("err", err))
		}
	}
}

// spawnLinter lints uri's current text on a worker goroutine. Only LaTeX
// documents are linted; ChkTeX has no BibTeX mode.
func (o *Orchestrator) spawnLinter(uri string) {
	o.mu.Lock()
	doc, ok := o.store.Get(uri)
	o.mu.Unlock()
	if !ok || doc.Language != workspace.LaTeX {
		return
	}
	workDir := ""
	if p, err := workspace.URIToPath(doc.URI); err == nil {
		workDir = filepath.Dir(p)
	}
	o.spawn(func() {
		issues, err := diagnostics.RunChkTeX(context.Background(), "chktex", workDir, doc.SourceID, doc.Text)
		if err != nil {
			o.logger.Warn("linter failed", slog.String("uri", doc.URI), slog.Any("err", err))
			issues = []diag.Issue{diagnostics.LinterFailure(doc.SourceID, err)}
		}
		o.diags.PushLinter(doc.URI, issues)
		o.scheduleDiagnostics()
	})
}

// scheduleDiagnostics arms (or re-arms) the debounced publication using the
// delay currently in effect; a non-positive delay publishes immediately.
func (o *Orchestrator) scheduleDiagnostics() {
	delay := time.Duration(o.delayMs.Load()) * time.Millisecond
	if delay <= 0 {
		o.publishAllDiagnostics()
		return
	}
	o.debounce.TriggerAfter(delay)
}

// publishAllDiagnostics snapshots the merged buffers for every non-log
// document and pushes one publishDiagnostics per URI. Runs on the debounce
// timer goroutine (or a build worker), never on the consumer.
func (o *Orchestrator) publishAllDiagnostics() {
	o.mu.Lock()
	byURI := o.diags.PublishAll(o.store)
	o.mu.Unlock()
	for uri, issues := range byURI {
		o.sendDiagnostics(uri, issues)
	}
}

func (o *Orchestrator) sendDiagnostics(uri string, issues []diag.Issue) {
	renderer := diag.NewRenderer(
		diag.WithSourceProvider(o.sources),
		diag.WithLSPByteFallback(diag.LSPByteFallbackApproximate),
	)
	lspDiags := make([]protocol.Diagnostic, 0, len(issues))
	for _, issue := range issues {
		d := renderer.LSPDiagnostic(issue)
		if d == nil {
			continue
		}
		lspDiags = append(lspDiags, toProtocolDiagnostic(*d))
	}
	o.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: lspDiags,
	})
}

// installWatchLocked points the file watcher at the configured auxiliary
// directory, falling back to the working directory, re-registered whenever
// options change. Callers must hold o.mu.
func (o *Orchestrator) installWatchLocked() {
	if o.watch == nil {
		return
	}
	dir := o.store.Environment.Options.Build.AuxDirectory
	if dir == "" {
		dir = "."
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(o.store.Environment.CWD, dir)
	}
	if err := o.store.RequestWatch(dir); err != nil {
		o.logger.Warn("watch refused", slog.String("dir", dir), slog.Any("err", err))
	}
}

func (o *Orchestrator) runBuild(rootURI string) build.Result {
	o.mu.Lock()
	path, err := workspace.URIToPath(rootURI)
	opts := o.store.Environment.Options.Build
	o.mu.Unlock()
	if err != nil {
		return build.Result{Status: build.StatusError}
	}

	invocationID := uuid.New().String()
	var transcript strings.Builder
	result, buildErr := o.builder.Build(context.Background(), path, opts, func(line string) {
		o.logger.Debug("compiler", slog.String("invocation", invocationID), slog.String("line", line))
		transcript.WriteString(line)
		transcript.WriteByte('\n')
		o.sendNotification("window/logMessage", protocol.LogMessageParams{
			Type:    protocol.MessageTypeLog,
			Message: fmt.Sprintf("[build %s] %s", invocationID, line),
		})
	})
	if buildErr != nil {
		o.logger.Warn("build failed", slog.Any("err", buildErr))
	}

	// The streamed transcript alone misses what the compiler only writes to
	// the .log file (latexmk in particular keeps most warnings there), so
	// the produced log is read back and parsed together with it.
	rootSource := workspace.DocumentSourceID(rootURI)
	logText := transcript.String()
	var logIssues []diag.Issue
	if result.Status == build.StatusSuccess || result.Status == build.StatusFailure {
		logPath := buildLogPath(path, opts.AuxDirectory)
		if data, err := os.ReadFile(logPath); err == nil {
			logText += "\n" + string(data)
		} else {
			logIssues = append(logIssues, diag.NewIssue(diag.Warning, diag.E_BUILD_LOG_UNREADABLE,
				fmt.Sprintf("build log %s could not be read", logPath)).
				WithSpan(location.Point(rootSource, 1, 1)).
				Build())
		}
	}
	byURI := diagnostics.ParseBuildLog(rootURI, rootSource, logText)
	byURI[rootURI] = append(byURI[rootURI], logIssues...)
	o.diags.AbsorbBuildLog(byURI)
	o.publishAllDiagnostics()

	return result
}

// buildLogPath derives the compiler log's location from the root document's
// stem and the configured auxiliary directory, matching where latexmk-style
// tools leave it.
func buildLogPath(rootPath, auxDir string) string {
	dir := filepath.Dir(rootPath)
	if auxDir != "" {
		if filepath.IsAbs(auxDir) {
			dir = auxDir
		} else {
			dir = filepath.Join(dir, auxDir)
		}
	}
	base := filepath.Base(rootPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+".log")
}

// runForwardSearch resolves rootURI and texURI to filesystem paths and asks
// the build package to launch the configured viewer jumping to texLine.
func (o *Orchestrator) runForwardSearch(rootURI, texURI string, texLine int) build.ForwardSearchResult {
	o.mu.Lock()
	rootPath, rootErr := workspace.URIToPath(rootURI)
	texPath, texErr := workspace.URIToPath(texURI)
	opts := o.store.Environment.Options.ForwardSearch
	o.mu.Unlock()
	if rootErr != nil || texErr != nil {
		return build.ForwardSearchResult{Status: build.ForwardSearchError}
	}

	pdfPath := strings.TrimSuffix(rootPath, filepath.Ext(rootPath)) + ".pdf"
	return build.ForwardSearch(context.Background(), opts, pdfPath, texPath, texLine)
}
