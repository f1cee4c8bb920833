package session

import (
	"encoding/json"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// customHandler wraps the generated protocol.Handler to add the two
// custom requests (textDocument/build, textDocument/forwardSearch) that
// have no field of their own to bind in protocol.Handler's method table,
// since they're not part of the LSP specification it's generated from.
type customHandler struct {
	protocol.Handler
	o *Orchestrator
}

// buildRequestParams mirrors the custom textDocument/build request shape:
// a single document identifier naming the file the build was invoked
// against (its project root drives the actual compiler invocation).
type buildRequestParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

type buildResult struct {
	Status string `json:"status"`
}

type forwardSearchRequestParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Position     protocol.Position               `json:"position"`
}

type forwardSearchResult struct {
	Status string `json:"status"`
}

// Handle intercepts the two custom method names before falling through to
// the embedded protocol.Handler's generated dispatch, which handles every
// standard LSP method and reports unmatched ones as method-not-found.
func (h *customHandler) Handle(context *glsp.Context) (any, bool, bool, error) {
	switch context.Method {
	case "textDocument/build":
		var params buildRequestParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		o := h.o
		o.mu.Lock()
		root := o.store.ProjectRoot(params.TextDocument.URI)
		o.mu.Unlock()
		result := o.runBuild(root)
		return buildResult{Status: result.Status.String()}, true, true, nil

	case "textDocument/forwardSearch":
		var params forwardSearchRequestParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		o := h.o
		o.mu.Lock()
		root := o.store.ProjectRoot(params.TextDocument.URI)
		o.mu.Unlock()
		result := o.runForwardSearch(root, params.TextDocument.URI, int(params.Position.Line))
		return forwardSearchResult{Status: result.Status.String()}, true, true, nil

	default:
		return h.Handler.Handle(context)
	}
}
