// Package dispatch routes LSP requests and notifications onto workspace
// snapshots: every request is first checked against the document it names,
// then handed a Slice of the workspace to compute its answer from, never
// the live store.
package dispatch

import (
	"context"
	"fmt"

	"github.com/texls-project/texls/workspace"
)

// ErrUnknownDocument is returned by DispatchRequest and
// DispatchPositionalRequest when the request names a URI
// the workspace has no record of; the transport maps it to an
// InvalidRequest response.
type ErrUnknownDocument struct {
	URI string
}

func (e *ErrUnknownDocument) Error() string {
	return fmt.Sprintf("unknown document: %s", e.URI)
}

// NoPosition marks FeatureRequest.Line/Character as unset, for requests
// that name a document but no particular cursor position (documentSymbol,
// foldingRange, documentLink).
const NoPosition = -1

// FeatureRequest carries everything a handler needs to answer a
// document-scoped LSP request: the slice taken synchronously on the
// session loop thread, the requested document's URI within that slice, and
// the environment in effect when the slice was taken. Line and Character
// carry the requesting cursor position in LSP coordinates (0-based, UTF-16
// code units) for handlers that need one; both are NoPosition otherwise.
type FeatureRequest struct {
	Slice       workspace.Slice
	URI         string
	Environment workspace.Environment
	Line        int
	Character   int
}

// Document resolves the request's own URI within its own slice; handlers
// use this instead of Slice.Get(req.URI) for brevity.
func (r FeatureRequest) Document() (workspace.Document, bool) {
	return r.Slice.Get(r.URI)
}

// FeatureHandler answers one document-scoped request. It runs off the
// session loop goroutine (the worker pool), so it must treat req as
// read-only: Slice is a snapshot, not a live view.
type FeatureHandler func(ctx context.Context, req FeatureRequest) (any, error)

// NotificationHandler reacts to a client notification. Unlike
// FeatureHandler it runs ON the session loop goroutine and may mutate the
// workspace store directly (open/change/save/close fall into this
// category).
type NotificationHandler func(ctx context.Context, params any) error

// Registry is the method-name routing table, built once at startup with a
// fluent builder so every method-to-handler binding lives in one place.
type Registry struct {
	requests      map[string]FeatureHandler
	notifications map[string]NotificationHandler
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		requests:      make(map[string]FeatureHandler),
		notifications: make(map[string]NotificationHandler),
	}
}

// OnRequest registers a FeatureHandler for method and returns the Registry
// for chaining.
func (r *Registry) OnRequest(method string, h FeatureHandler) *Registry {
	r.requests[method] = h
	return r
}

// OnNotification registers a NotificationHandler for method and returns
// the Registry for chaining.
func (r *Registry) OnNotification(method string, h NotificationHandler) *Registry {
	r.notifications[method] = h
	return r
}

// Request looks up the handler registered for method.
func (r *Registry) Request(method string) (FeatureHandler, bool) {
	h, ok := r.requests[method]
	return h, ok
}

// Notification looks up the handler registered for method.
func (r *Registry) Notification(method string) (NotificationHandler, bool) {
	h, ok := r.notifications[method]
	return h, ok
}

// DispatchRequest resolves uri against store, builds the FeatureRequest
// slice, and invokes h; method is not used to look a handler up. It returns
// ErrUnknownDocument without invoking the handler when uri names no
// document, so handlers never re-implement that check.
func DispatchRequest(ctx context.Context, store *workspace.Store, method, uri string, h FeatureHandler) (any, error) {
	return DispatchPositionalRequest(ctx, store, method, uri, NoPosition, NoPosition, h)
}

// DispatchPositionalRequest is DispatchRequest for a handler that also needs
// the requesting cursor position (hover, completion, definition, references,
// rename, documentHighlight, inlayHint).
func DispatchPositionalRequest(ctx context.Context, store *workspace.Store, method, uri string, line, character int, h FeatureHandler) (any, error) {
	if _, ok := store.Get(uri); !ok {
		return nil, &ErrUnknownDocument{URI: uri}
	}
	req := FeatureRequest{
		Slice:       store.Slice(uri),
		URI:         workspace.NormalizeURI(uri),
		Environment: store.Environment,
		Line:        line,
		Character:   character,
	}
	return h(ctx, req)
}
