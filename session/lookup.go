package session

import (
	"sort"

	"github.com/texls-project/texls/workspace"
)

// labelTarget is one \label{name} definition site, with the URI of the
// document it was found in.
type labelTarget struct {
	URI string
	workspace.Occurrence
}

// findLabelDefs returns every \label occurrence across slice whose name
// equals name, in a stable (URI, then byte offset) order.
func findLabelDefs(slice workspace.Slice, name string) []labelTarget {
	var out []labelTarget
	for uri, doc := range slice.Documents {
		if doc.Language != workspace.LaTeX {
			continue
		}
		for _, occ := range workspace.ExtractLabelDefs(doc.Text) {
			if occ.Arg == name {
				out = append(out, labelTarget{URI: uri, Occurrence: occ})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].URI != out[j].URI {
			return out[i].URI < out[j].URI
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// findLabelRefs returns every \ref-family occurrence across slice whose name
// equals name.
func findLabelRefs(slice workspace.Slice, name string) []labelTarget {
	var out []labelTarget
	for uri, doc := range slice.Documents {
		if doc.Language != workspace.LaTeX {
			continue
		}
		for _, occ := range workspace.ExtractLabelRefs(doc.Text) {
			if occ.Arg == name {
				out = append(out, labelTarget{URI: uri, Occurrence: occ})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].URI != out[j].URI {
			return out[i].URI < out[j].URI
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// findCiteRefs returns every \cite-family occurrence across slice whose key
// equals key.
func findCiteRefs(slice workspace.Slice, key string) []labelTarget {
	var out []labelTarget
	for uri, doc := range slice.Documents {
		if doc.Language != workspace.LaTeX {
			continue
		}
		for _, occ := range workspace.ExtractCiteRefs(doc.Text) {
			if occ.Arg == key {
				out = append(out, labelTarget{URI: uri, Occurrence: occ})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].URI != out[j].URI {
			return out[i].URI < out[j].URI
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// findBibEntry looks up a BibTeX entry by key across every .bib document in
// slice, returning the first match.
func findBibEntry(slice workspace.Slice, key string) (labelTarget, bool) {
	uris := make([]string, 0, len(slice.Documents))
	for uri := range slice.Documents {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for _, uri := range uris {
		doc := slice.Documents[uri]
		if doc.Language != workspace.BibTeX {
			continue
		}
		for _, occ := range workspace.ExtractBibEntries(doc.Text) {
			if occ.Arg == key {
				return labelTarget{URI: uri, Occurrence: occ}, true
			}
		}
	}
	return labelTarget{}, false
}
