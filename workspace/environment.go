package workspace

import (
	"github.com/texls-project/texls/config"
	"github.com/texls-project/texls/distro"
)

// ClientInfo mirrors the subset of InitializeParams.clientInfo the
// environment record carries, without importing the full protocol package
// here so that workspace stays a lower layer than the LSP transport.
type ClientInfo struct {
	Name    string
	Version string
}

// Environment bundles everything a feature handler needs besides the
// document graph itself: client capabilities (opaque to this package — kept
// as a type parameter-free marker since only the transport layer interprets
// them), client info, current configuration, the filesystem resolver, and
// the working directory.
type Environment struct {
	ClientInfo          ClientInfo
	PushConfigSupported bool
	PullConfigSupported bool
	Options             config.Options
	Resolver            distro.Resolver
	CWD                 string
}

// NewEnvironment returns the environment in effect before initialize
// completes: default options and a resolver that never resolves anything
// (installed for real once distribution detection finishes, step 3).
func NewEnvironment(cwd string) Environment {
	return Environment{
		Options:  config.DefaultOptions(),
		Resolver: distro.NullResolver{},
		CWD:      cwd,
	}
}
