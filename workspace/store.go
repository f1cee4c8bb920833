package workspace

import (
	"fmt"
	"os"
)

// ChangeEvent is sent to every channel registered with Subscribe whenever
// Open, Load, Reload or Reparse replaces a Document's content. Remove and
// Close never emit.
type ChangeEvent struct {
	URI      string
	Document Document
}

// Store is the workspace: a mapping from URI to Document plus the
// environment record and the viewport set. Store is mutated ONLY from the
// session orchestrator's loop goroutine — it holds no internal locking, and
// callers on other goroutines must only ever read a Slice taken beforehand.
type Store struct {
	docs     map[string]Document
	viewport map[string]struct{}
	roots    map[string]struct{}
	cursors  map[string]Position

	Environment Environment

	// MaxSliceDepth bounds inclusion-closure BFS traversal; zero means
	// unlimited (still cycle-safe via the visited set).
	MaxSliceDepth int

	listeners []chan<- ChangeEvent
	watchDir  func(string) error
}

// Position is the last known caret position for a URI, maintained
// opportunistically from completion/hover traffic for inverse-search.
type Position struct {
	Line      int
	Character int
}

// NewStore creates an empty Store rooted at cwd.
func NewStore(cwd string) *Store {
	return &Store{
		docs:        make(map[string]Document),
		viewport:    make(map[string]struct{}),
		roots:       make(map[string]struct{}),
		cursors:     make(map[string]Position),
		Environment: NewEnvironment(cwd),
	}
}

// Subscribe registers ch to receive every future ChangeEvent. Used by the
// diagnostic pipeline and, indirectly, by anything else that wants to react
// to document mutation.
func (s *Store) Subscribe(ch chan<- ChangeEvent) {
	s.listeners = append(s.listeners, ch)
}

func (s *Store) emit(ev ChangeEvent) {
	for _, l := range s.listeners {
		l <- ev
	}
}

// AddRoot registers a workspace folder URI.
func (s *Store) AddRoot(uri string) { s.roots[NormalizeURI(uri)] = struct{}{} }

// RemoveRoot unregisters a workspace folder URI.
func (s *Store) RemoveRoot(uri string) { delete(s.roots, NormalizeURI(uri)) }

// Open parses text and inserts/replaces the Document at uri, atomically:
// no handler observes a partial update, since Document
// replacement is a single map write. Emits a ChangeEvent.
func (s *Store) Open(uri, text string, lang Language) Document {
	uri = NormalizeURI(uri)
	doc := newDocument(uri, text, lang, false)
	s.docs[uri] = doc
	s.emit(ChangeEvent{URI: uri, Document: doc})
	return doc
}

// openSynthetic is like Open but marks the Document as loaded transitively
// (never opened explicitly), so it stays out of the viewport.
func (s *Store) openSynthetic(uri, text string, lang Language) Document {
	uri = NormalizeURI(uri)
	doc := newDocument(uri, text, lang, true)
	s.docs[uri] = doc
	s.emit(ChangeEvent{URI: uri, Document: doc})
	return doc
}

// Get returns the current Document at uri, if any.
func (s *Store) Get(uri string) (Document, bool) {
	doc, ok := s.docs[NormalizeURI(uri)]
	return doc, ok
}

// Load reads path from disk, infers its language, and opens it.
func (s *Store) Load(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("load %s: %w", path, err)
	}
	uri := PathToURI(path)
	lang := LanguageByExtension(path)
	return s.openSynthetic(uri, string(content), lang), nil
}

// Reload re-reads path and replaces the existing Document; a no-op if the
// corresponding URI is unknown.
func (s *Store) Reload(path string) error {
	uri := NormalizeURI(PathToURI(path))
	doc, ok := s.docs[uri]
	if !ok {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", path, err)
	}
	newDoc := newDocument(uri, string(content), doc.Language, doc.Synthetic)
	s.docs[uri] = newDoc
	s.emit(ChangeEvent{URI: uri, Document: newDoc})
	return nil
}

// Reparse re-derives every Document from its current text, emitting a
// ChangeEvent per document. Called when the resolver or options change,
// since inclusion extraction and downstream diagnostics may now see
// different results for the same text.
func (s *Store) Reparse() {
	for uri, doc := range s.docs {
		nd := newDocument(uri, doc.Text, doc.Language, doc.Synthetic)
		s.docs[uri] = nd
		s.emit(ChangeEvent{URI: uri, Document: nd})
	}
}

// Remove erases the Document at uri. No event is emitted.
func (s *Store) Remove(uri string) {
	uri = NormalizeURI(uri)
	delete(s.docs, uri)
	delete(s.viewport, uri)
	delete(s.cursors, uri)
}

// Close removes uri from the viewport; the Document remains in the store
// until unreferenced by anything else (it may still be reachable via
// inclusion from another open document).
func (s *Store) Close(uri string) {
	delete(s.viewport, NormalizeURI(uri))
}

// Viewport marks uri as currently of interest to the editor.
func (s *Store) Viewport(uri string) {
	s.viewport[NormalizeURI(uri)] = struct{}{}
}

// InViewport reports whether uri is in the viewport set.
func (s *Store) InViewport(uri string) bool {
	_, ok := s.viewport[NormalizeURI(uri)]
	return ok
}

// Iter returns all Documents in unspecified order.
func (s *Store) Iter() []Document {
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}

// SetCursor records the last known caret position for uri.
func (s *Store) SetCursor(uri string, pos Position) {
	s.cursors[NormalizeURI(uri)] = pos
}

// Cursor returns the last known caret position for uri, if any.
func (s *Store) Cursor(uri string) (Position, bool) {
	pos, ok := s.cursors[NormalizeURI(uri)]
	return pos, ok
}

// RequestWatch asks the installed watch function (if any) to watch path.
// The session orchestrator installs this to the file watcher's WatchDir so
// that the workspace model doesn't need to import the watcher package.
func (s *Store) RequestWatch(path string) error {
	if s.watchDir == nil {
		return nil
	}
	return s.watchDir(path)
}

// SetWatchFunc installs the function used by RequestWatch.
func (s *Store) SetWatchFunc(fn func(string) error) { s.watchDir = fn }
