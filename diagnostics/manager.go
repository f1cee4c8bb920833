// Package diagnostics manages per-document issue buffers: each document
// accumulates syntax, linter, and build-log findings independently, and
// publication merges whatever each source last pushed.
package diagnostics

import (
	"sync"

	"github.com/texls-project/texls/diag"
	"github.com/texls-project/texls/workspace"
)

// Source partitions a document's accumulated diagnostics by where they
// came from, so that (for example) a new syntax pass can replace only the
// syntax buffer without discarding linter or build-log findings still in
// effect for that document.
type Source int

const (
	SourceSyntax Source = iota
	SourceLinter
	SourceBuildLog
)

// Manager holds, per URI, one buffer of diag.Issue per Source. It is safe
// for concurrent use: pushes typically happen from worker goroutines while
// a debouncer goroutine reads a consistent view to publish.
type Manager struct {
	mu      sync.Mutex
	buffers map[string]map[Source][]diag.Issue
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{buffers: make(map[string]map[Source][]diag.Issue)}
}

// PushSyntax replaces uri's syntax buffer. Called after every reparse
// (open/change), since syntax diagnostics always reflect only the latest
// text.
func (m *Manager) PushSyntax(uri string, issues []diag.Issue) {
	m.push(uri, SourceSyntax, issues)
}

// PushLinter replaces uri's linter buffer, populated by an external
// ChkTeX-like tool invocation (out of scope here; the caller supplies
// already-parsed issues).
func (m *Manager) PushLinter(uri string, issues []diag.Issue) {
	m.push(uri, SourceLinter, issues)
}

// AbsorbBuildLog replaces, for every URI named in issues, that URI's
// build-log buffer. A build run can produce diagnostics against documents
// other than the root it was invoked for (an included chapter with a
// missing reference, say), so issues are grouped by their own URI first.
func (m *Manager) AbsorbBuildLog(byURI map[string][]diag.Issue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for uri, issues := range byURI {
		m.setLocked(uri, SourceBuildLog, issues)
	}
}

// Clear drops every buffer held for uri, used when a document is removed
// from the workspace entirely.
func (m *Manager) Clear(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buffers, workspace.NormalizeURI(uri))
}

func (m *Manager) push(uri string, src Source, issues []diag.Issue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(uri, src, issues)
}

func (m *Manager) setLocked(uri string, src Source, issues []diag.Issue) {
	uri = workspace.NormalizeURI(uri)
	byURI, ok := m.buffers[uri]
	if !ok {
		byURI = make(map[Source][]diag.Issue)
		m.buffers[uri] = byURI
	}
	byURI[src] = issues
}

// Publish returns the merged, flattened diagnostics currently held for
// uri: syntax, then linter, then build-log, in that order so that tests
// asserting on positional stability don't depend on map iteration order.
func (m *Manager) Publish(uri string) []diag.Issue {
	m.mu.Lock()
	defer m.mu.Unlock()
	byURI, ok := m.buffers[workspace.NormalizeURI(uri)]
	if !ok {
		return nil
	}
	var out []diag.Issue
	out = append(out, byURI[SourceSyntax]...)
	out = append(out, byURI[SourceLinter]...)
	out = append(out, byURI[SourceBuildLog]...)
	return out
}

// PublishAll returns Publish for every URI in store that isn't a build log
// document; publishing diagnostics against a .log/.blg file itself is
// meaningless.
func (m *Manager) PublishAll(store *workspace.Store) map[string][]diag.Issue {
	out := make(map[string][]diag.Issue)
	for _, doc := range store.Iter() {
		if doc.Language == workspace.BuildLog {
			continue
		}
		out[doc.URI] = m.Publish(doc.URI)
	}
	return out
}
