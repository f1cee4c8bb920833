package session

import (
	"context"

	"github.com/texls-project/texls/dispatch"
	"github.com/texls-project/texls/workspace"
)

// takeSlice takes the inclusion-closure Slice for uri under o.mu, the only
// point at which a feature request touches the live Store; everything
// downstream of this call operates on the returned snapshot only.
func (o *Orchestrator) takeSlice(uri string) (workspace.Slice, workspace.Environment, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.store.Get(uri); !ok {
		return workspace.Slice{}, workspace.Environment{}, &dispatch.ErrUnknownDocument{URI: workspace.NormalizeURI(uri)}
	}
	return o.store.Slice(uri), o.store.Environment, nil
}

// withSlice runs fn against uri's slice, throttled by the same bounded
// worker capacity as background builds so a burst of feature requests can't
// run unbounded concurrent work against the workspace.
func (o *Orchestrator) withSlice(uri string, fn func(workspace.Slice, workspace.Environment) (any, error)) (any, error) {
	slice, env, err := o.takeSlice(uri)
	if err != nil {
		return nil, invalidRequestError(err)
	}
	if err := o.cap.Acquire(context.Background(), 1); err != nil {
		return nil, err
	}
	defer o.cap.Release(1)
	return fn(slice, env)
}
