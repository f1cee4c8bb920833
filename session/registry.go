package session

import (
	"context"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

// buildRegistry binds every document-scoped LSP method name named in the
// external interface to its handler, the single place method-name-to-handler
// binding happens rather than scattering it across the glsp adapter
// functions, mirroring the RequestDispatcher/NotificationDispatcher builder
// the orchestrator's message loop is grounded on.
func buildRegistry(o *Orchestrator) *dispatch.Registry {
	return dispatch.NewRegistry().
		OnRequest("textDocument/hover", o.hoverRequest).
		OnRequest("textDocument/completion", o.completionRequest).
		OnRequest("textDocument/definition", o.definitionRequest).
		OnRequest("textDocument/references", o.referencesRequest).
		OnRequest("textDocument/documentSymbol", o.documentSymbolRequest).
		OnRequest("textDocument/prepareRename", o.prepareRenameRequest).
		OnRequest("textDocument/rename", o.renameRequest).
		OnRequest("textDocument/documentHighlight", o.documentHighlightRequest).
		OnRequest("textDocument/documentLink", o.documentLinkRequest).
		OnRequest("textDocument/foldingRange", o.foldingRangeRequest).
		OnRequest("textDocument/formatting", o.formattingRequest).
		OnRequest("textDocument/inlayHint", o.inlayHintRequest)
}

// dispatchFeature takes uri's slice under o.mu, then runs the registered
// handler for method against it on the bounded worker pool, mirroring
// withSlice but going through o.registry so method-name routing stays in
// one table instead of being duplicated per glsp adapter.
func (o *Orchestrator) dispatchFeature(method, uri string, line, character int) (any, error) {
	slice, env, err := o.takeSlice(uri)
	if err != nil {
		return nil, invalidRequestError(err)
	}
	h, ok := o.registry.Request(method)
	if !ok {
		return nil, nil
	}
	if err := o.cap.Acquire(context.Background(), 1); err != nil {
		return nil, err
	}
	defer o.cap.Release(1)

	req := dispatch.FeatureRequest{
		Slice:       slice,
		URI:         workspace.NormalizeURI(uri),
		Environment: env,
		Line:        line,
		Character:   character,
	}
	return h(context.Background(), req)
}
