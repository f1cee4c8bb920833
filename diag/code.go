package diag

// CodeCategory represents the semantic domain of an error code.
//
// Categories represent the semantic domain of an error, not necessarily the
// component that emits it. Most codes are emitted exclusively by their
// category's layer, but some codes represent cross-cutting concerns.
type CodeCategory uint8

const (
	// CategorySentinel is for sentinel codes like E_LIMIT_REACHED and E_INTERNAL.
	CategorySentinel CodeCategory = iota

	// CategorySyntax is for LaTeX/BibTeX syntax diagnostics.
	CategorySyntax

	// CategoryInclusion is for inclusion-graph resolution errors (\input,
	// \include, \bibliography and friends).
	CategoryInclusion

	// CategoryLinter is for diagnostics produced by an external linter
	// (e.g. ChkTeX) run over a document.
	CategoryLinter

	// CategoryBuild is for diagnostics absorbed from a compiler's build log.
	CategoryBuild

	// CategoryConfig is for configuration validation errors.
	CategoryConfig
)

// String returns a human-readable label for the category.
func (c CodeCategory) String() string {
	switch c {
	case CategorySentinel:
		return "sentinel"
	case CategorySyntax:
		return "syntax"
	case CategoryInclusion:
		return "inclusion"
	case CategoryLinter:
		return "linter"
	case CategoryBuild:
		return "build"
	case CategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Code is a stable programmatic identifier for an Issue.
//
// Error codes are stable identifiers that tools can match on, even when
// message text changes. The Code type uses unexported fields to enforce
// a closed set of valid codes—only codes defined in this package are valid.
//
// Code.String() values are globally unique across all categories. The
// CodeCategory is informational metadata for filtering and grouping.
type Code struct {
	value string
	cat   CodeCategory
}

// String returns the code's string representation (e.g., "E_UNCLOSED_GROUP").
func (c Code) String() string {
	return c.value
}

// Category returns the programmatic category for this code.
func (c Code) Category() CodeCategory {
	return c.cat
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c.value == ""
}

// code is the unexported constructor—callers cannot create arbitrary codes.
func code(value string, cat CodeCategory) Code {
	return Code{value: value, cat: cat}
}

// Sentinel codes.
var (
	// E_LIMIT_REACHED is a sentinel code for explicit limit notification.
	// It does not automatically trigger Result.LimitReached(); use
	// Collector.LimitReached() to check limit status. Callers may inject
	// this code manually when desired.
	E_LIMIT_REACHED = code("E_LIMIT_REACHED", CategorySentinel)

	// E_INTERNAL indicates an unexpected invariant failure (internal bug indicator).
	// Use for conditions that should never occur in correct code.
	E_INTERNAL = code("E_INTERNAL", CategorySentinel)
)

// Syntax codes.
var (
	// E_UNCLOSED_GROUP indicates a brace group was never closed.
	E_UNCLOSED_GROUP = code("E_UNCLOSED_GROUP", CategorySyntax)

	// E_UNCLOSED_ENVIRONMENT indicates a \begin{...} has no matching \end{...}.
	E_UNCLOSED_ENVIRONMENT = code("E_UNCLOSED_ENVIRONMENT", CategorySyntax)

	// E_MISMATCHED_ENVIRONMENT indicates \end{...} names an environment other
	// than the innermost open one.
	E_MISMATCHED_ENVIRONMENT = code("E_MISMATCHED_ENVIRONMENT", CategorySyntax)

	// E_UNEXPECTED_END indicates a stray \end{...} with no open environment.
	E_UNEXPECTED_END = code("E_UNEXPECTED_END", CategorySyntax)

	// E_MALFORMED_COMMAND indicates a command invocation with malformed
	// argument syntax.
	E_MALFORMED_COMMAND = code("E_MALFORMED_COMMAND", CategorySyntax)

	// E_MALFORMED_BIB_ENTRY indicates a BibTeX entry that does not parse.
	E_MALFORMED_BIB_ENTRY = code("E_MALFORMED_BIB_ENTRY", CategorySyntax)
)

// Inclusion codes.
var (
	// E_INCLUDE_NOT_FOUND indicates an \input/\include/\bibliography target
	// could not be resolved on disk or in the workspace.
	E_INCLUDE_NOT_FOUND = code("E_INCLUDE_NOT_FOUND", CategoryInclusion)

	// E_INCLUDE_CYCLE indicates an inclusion cycle was detected; traversal
	// still completes, but the cycle is reported informationally.
	E_INCLUDE_CYCLE = code("E_INCLUDE_CYCLE", CategoryInclusion)

	// E_AMBIGUOUS_ROOT indicates a project's inclusion graph has more than
	// one candidate root with no deterministic tiebreak available.
	E_AMBIGUOUS_ROOT = code("E_AMBIGUOUS_ROOT", CategoryInclusion)
)

// Linter codes.
var (
	// E_LINTER_FAILED indicates the external linter process could not be
	// started or exited abnormally.
	E_LINTER_FAILED = code("E_LINTER_FAILED", CategoryLinter)

	// E_LINTER_WARNING is the generic code applied to diagnostics whose
	// specific rule the linter does not expose as a stable identifier.
	E_LINTER_WARNING = code("E_LINTER_WARNING", CategoryLinter)
)

// Build codes.
var (
	// E_BUILD_FAILED indicates the compiler process exited with a nonzero
	// status.
	E_BUILD_FAILED = code("E_BUILD_FAILED", CategoryBuild)

	// E_BUILD_LOG_UNREADABLE indicates the expected build log file could not
	// be read after the compiler ran.
	E_BUILD_LOG_UNREADABLE = code("E_BUILD_LOG_UNREADABLE", CategoryBuild)

	// E_BUILD_LOG_ERROR is applied to an error-severity entry absorbed from
	// a build log.
	E_BUILD_LOG_ERROR = code("E_BUILD_LOG_ERROR", CategoryBuild)

	// E_BUILD_LOG_WARNING is applied to a warning-severity entry absorbed
	// from a build log.
	E_BUILD_LOG_WARNING = code("E_BUILD_LOG_WARNING", CategoryBuild)
)

// Config codes.
var (
	// E_CONFIG_SHAPE indicates pushed or pulled configuration could not be
	// decoded into the expected shape.
	E_CONFIG_SHAPE = code("E_CONFIG_SHAPE", CategoryConfig)

	// E_CONFIG_UNCONFIGURED indicates an operation (build, forward search)
	// was requested without the configuration it requires.
	E_CONFIG_UNCONFIGURED = code("E_CONFIG_UNCONFIGURED", CategoryConfig)
)

// allCodes contains all defined codes for AllCodes() and uniqueness verification.
var allCodes = []Code{
	// Sentinel
	E_LIMIT_REACHED,
	E_INTERNAL,
	// Syntax
	E_UNCLOSED_GROUP,
	E_UNCLOSED_ENVIRONMENT,
	E_MISMATCHED_ENVIRONMENT,
	E_UNEXPECTED_END,
	E_MALFORMED_COMMAND,
	E_MALFORMED_BIB_ENTRY,
	// Inclusion
	E_INCLUDE_NOT_FOUND,
	E_INCLUDE_CYCLE,
	E_AMBIGUOUS_ROOT,
	// Linter
	E_LINTER_FAILED,
	E_LINTER_WARNING,
	// Build
	E_BUILD_FAILED,
	E_BUILD_LOG_UNREADABLE,
	E_BUILD_LOG_ERROR,
	E_BUILD_LOG_WARNING,
	// Config
	E_CONFIG_SHAPE,
	E_CONFIG_UNCONFIGURED,
}

// AllCodes returns all defined codes.
//
// This function is useful for tooling and testing. The returned slice is a
// copy; modifications do not affect the original.
func AllCodes() []Code {
	result := make([]Code, len(allCodes))
	copy(result, allCodes)
	return result
}

// CodesByCategory returns codes in the given category.
//
// The returned slice is a new allocation; modifications do not affect
// internal state.
func CodesByCategory(cat CodeCategory) []Code {
	var result []Code
	for _, c := range allCodes {
		if c.cat == cat {
			result = append(result, c)
		}
	}
	return result
}
