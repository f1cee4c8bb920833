package diag

// Detail provides key-value context for diagnostic issues.
//
// Details are used to add structured information to issues that can be
// programmatically inspected by tools. Use the standard detail key constants
// to ensure consistent key naming across the codebase.
type Detail struct {
	Key   string
	Value string
}

// Standard detail keys for consistent diagnostic metadata.
//
// Use these constants to avoid stringly-typed drift and enable programmatic
// inspection of diagnostic details. Custom detail keys are permitted for
// one-off diagnostics; use lower_snake_case for custom keys.
const (
	// DetailKeyExpected is the expected value or token.
	DetailKeyExpected = "expected"

	// DetailKeyGot is the actual value or token encountered.
	DetailKeyGot = "got"

	// DetailKeyEnvironment is the LaTeX environment name involved
	// (e.g., "itemize" in a \begin{itemize}/\end{enumerate} mismatch).
	DetailKeyEnvironment = "environment"

	// DetailKeyCommand is the LaTeX command name involved (e.g., "includegraphics"
	// for a malformed-command diagnostic).
	DetailKeyCommand = "command"

	// DetailKeyReason is the failure reason discriminant.
	// Used with E_INCLUDE_NOT_FOUND ("absent", "outside_root", "unreadable").
	DetailKeyReason = "reason"

	// DetailKeyIncludePath is the literal argument to \include, \input, or
	// \bibliography being resolved (for inclusion-resolution diagnostics).
	DetailKeyIncludePath = "include_path"

	// DetailKeyResolvedPath is the path the include argument resolved to on
	// disk, when resolution succeeded structurally but failed some other
	// check (e.g., resolved outside the project root).
	DetailKeyResolvedPath = "resolved_path"

	// DetailKeyCycleChain is the inclusion cycle participants, root to
	// repeated file, as a comma-separated list of URIs (for E_INCLUDE_CYCLE).
	DetailKeyCycleChain = "cycle_chain"

	// DetailKeyConfigKey is the dotted configuration key path a config
	// diagnostic refers to (e.g., "build.tool").
	DetailKeyConfigKey = "config_key"

	// DetailKeyBuildTool is the configured build tool name (e.g., "latexmk",
	// "tectonic") a build-related diagnostic concerns.
	DetailKeyBuildTool = "build_tool"

	// DetailKeyLogLine is the 1-based line number within the raw build log
	// a parsed diagnostic was extracted from, distinct from the line number
	// in the LaTeX source itself (which becomes the issue's Span).
	DetailKeyLogLine = "log_line"

	// DetailKeyContext is contextual information (e.g., "Builder", "Registry").
	DetailKeyContext = "context"

	// DetailKeyId is the identifier value (e.g., synthetic SourceID).
	DetailKeyId = "id"
)

// ExpectedGot creates a pair of details for mismatch diagnostics, such as a
// closing environment that doesn't match the one currently open.
func ExpectedGot(expected, got string) []Detail {
	return []Detail{
		{Key: DetailKeyExpected, Value: expected},
		{Key: DetailKeyGot, Value: got},
	}
}

// EnvironmentMismatch creates detail entries for an \end{} that doesn't match
// the innermost open \begin{}.
//
// Use with E_MISMATCHED_ENVIRONMENT so tooling can read the two environment
// names without parsing the message string.
func EnvironmentMismatch(expectedEnv, gotEnv string) []Detail {
	return []Detail{
		{Key: DetailKeyEnvironment, Value: expectedEnv},
		{Key: DetailKeyGot, Value: gotEnv},
	}
}

// IncludeResolution creates detail entries describing how an \include or
// \input argument failed to resolve.
//
// Use with E_INCLUDE_NOT_FOUND and E_AMBIGUOUS_ROOT; reason is a short
// discriminant such as "absent" or "outside_root" (see [DetailKeyReason]).
func IncludeResolution(includePath, reason string) []Detail {
	return []Detail{
		{Key: DetailKeyIncludePath, Value: includePath},
		{Key: DetailKeyReason, Value: reason},
	}
}

// ConfigField creates a single detail entry naming the configuration key a
// config diagnostic concerns.
//
// Use with E_CONFIG_SHAPE and E_CONFIG_UNCONFIGURED.
func ConfigField(configKey string) []Detail {
	return []Detail{
		{Key: DetailKeyConfigKey, Value: configKey},
	}
}
