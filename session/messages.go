package session

import (
	"github.com/texls-project/texls/config"
	"github.com/texls-project/texls/distro"
	"github.com/texls-project/texls/watcher"
)

// internalMessage is the session loop's second input stream besides LSP
// traffic: events generated by background work (distribution detection,
// the file watcher, configuration installs) that must still be applied to
// the workspace with the same serialization as a direct protocol
// notification.
type internalMessage interface {
	apply(o *Orchestrator)
}

// setDistroMsg installs the resolver found by asynchronous distribution
// detection kicked off during initialize. Inclusion resolution consults the
// resolver lazily, so the reparse re-derives every document's edges under
// the search paths now available.
type setDistroMsg struct {
	resolver distro.Resolver
}

func (m setDistroMsg) apply(o *Orchestrator) {
	o.store.Environment.Resolver = m.resolver
	o.logger.Info("distribution detection finished")
	o.store.Reparse()
}

// setOptionsMsg installs configuration pulled or pushed by the client.
type setOptionsMsg struct {
	options config.Options
}

func (m setOptionsMsg) apply(o *Orchestrator) {
	o.store.Environment.Options = m.options
	o.delayMs.Store(int64(m.options.DiagnosticsDelayMs))
	o.installWatchLocked()
	o.store.Reparse()
}

// fileEventMsg carries one debounced filesystem change from the watcher.
type fileEventMsg struct {
	event watcher.Event
}

func (m fileEventMsg) apply(o *Orchestrator) {
	o.handleFileEvent(m.event)
}
