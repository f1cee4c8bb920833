package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls-project/texls/workspace"
)

// auxiliaryExtensions lists the extensions texlab.cleanAuxiliary removes:
// everything latexmk/chktex produce besides the PDF and build log itself.
var auxiliaryExtensions = []string{".aux", ".fls", ".fdb_latexmk", ".synctex.gz", ".toc", ".out", ".bbl", ".blg"}

// artifactExtensions extends auxiliaryExtensions with the build's actual
// deliverables, for texlab.cleanArtifacts.
var artifactExtensions = append(append([]string{}, auxiliaryExtensions...), ".pdf", ".log")

func (o *Orchestrator) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	o.setNotify(ctx)

	uri, ok := firstArgumentURI(params.Arguments)
	if !ok {
		return nil, nil
	}

	o.mu.Lock()
	root := o.store.ProjectRoot(uri)
	o.mu.Unlock()

	rootPath, err := workspace.URIToPath(root)
	if err != nil {
		return nil, nil
	}

	var exts []string
	switch params.Command {
	case "texlab.cleanAuxiliary":
		exts = auxiliaryExtensions
	case "texlab.cleanArtifacts":
		exts = artifactExtensions
	default:
		return nil, nil
	}

	stem := strings.TrimSuffix(rootPath, filepath.Ext(rootPath))
	for _, ext := range exts {
		path := stem + ext
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			o.logger.Warn("cleanup failed", slog.String("path", path), slog.Any("err", err))
		}
	}
	return nil, nil
}

// firstArgumentURI extracts a "uri" field from the command's first
// argument, the shape a client sends when the command was offered as a
// code action/command against a specific document: the clean commands
// operate on the project of the document they were invoked from.
func firstArgumentURI(args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return "", false
	}
	var payload struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.URI == "" {
		return "", false
	}
	return payload.URI, true
}
