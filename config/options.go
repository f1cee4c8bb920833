// Package config defines the server's recognized configuration keys
// and the relaxed-JSON decoding used for both initializationOptions and
// workspace/didChangeConfiguration payloads.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// BuildOptions configures the build engine's compiler invocation.
type BuildOptions struct {
	OnSave             bool     `json:"onSave"`
	Executable         string   `json:"executable"`
	Args               []string `json:"args"`
	AuxDirectory       string   `json:"auxDirectory"`
	ForwardSearchAfter bool     `json:"forwardSearchAfter"`
}

// ForwardSearchOptions configures the inverse-search tool invocation.
type ForwardSearchOptions struct {
	Executable string   `json:"executable"`
	Args       []string `json:"args"`
}

// ChktexOptions controls when the external linter runs.
type ChktexOptions struct {
	OnOpenAndSave bool `json:"onOpenAndSave"`
	OnEdit        bool `json:"onEdit"`
}

// SymbolOptions filters the symbols surfaced by documentSymbol/workspaceSymbol.
type SymbolOptions struct {
	AllowedPatterns []string `json:"allowedPatterns"`
	IgnoredPatterns []string `json:"ignoredPatterns"`
}

// Options is the full recognized configuration object, decoded from either
// initializationOptions or a pushed/pulled workspace/configuration value.
type Options struct {
	Build               BuildOptions         `json:"build"`
	ForwardSearch       ForwardSearchOptions `json:"forwardSearch"`
	Chktex              ChktexOptions        `json:"chktex"`
	DiagnosticsDelayMs  int                  `json:"diagnosticsDelay"`
	Symbols             SymbolOptions        `json:"symbols"`
	LatexFormatter      string               `json:"latexFormatter"`
	BibtexFormatter     string               `json:"bibtexFormatter"`
	FormatterLineLength int                  `json:"formatterLineLength"`
}

// DefaultOptions returns the configuration in effect before any client
// configuration has been received, or after a malformed push is rejected.
func DefaultOptions() Options {
	return Options{
		DiagnosticsDelayMs:  300,
		FormatterLineLength: 80,
	}
}

// StartupOptions is decoded from InitializeParams.initializationOptions.
type StartupOptions struct {
	SkipDistro bool `json:"skipDistro"`
}

// Parse decodes raw (which may be JSONC - comments and trailing commas are
// legal because a user may hand-edit their settings.json) into Options.
//
// A value of the wrong shape (e.g. a bare number instead of an object) is
// reported as an error; callers must keep the previous Options and warn the
// client rather than propagate a zero-valued Options.
func Parse(raw []byte) (Options, error) {
	opts := DefaultOptions()
	if len(raw) == 0 {
		return opts, nil
	}
	clean := jsonc.ToJSON(raw)
	if err := json.Unmarshal(clean, &opts); err != nil {
		return Options{}, fmt.Errorf("parse configuration: %w", err)
	}
	return opts, nil
}

// ParseStartup decodes initializationOptions into StartupOptions. Unlike
// Parse, a malformed value is not a client-facing warning (the handshake
// has no channel for it yet); it simply falls back to zero-valued defaults.
func ParseStartup(raw []byte) StartupOptions {
	var opts StartupOptions
	if len(raw) == 0 {
		return opts
	}
	clean := jsonc.ToJSON(raw)
	_ = json.Unmarshal(clean, &opts)
	return opts
}
