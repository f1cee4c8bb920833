package workspace

import (
	"path/filepath"
	"sort"
	"strings"
)

// Slice is the transitive inclusion closure reachable from root: the set of
// documents a feature request against root is allowed to consult. Feature
// handlers never see the whole Store, only a Slice — this keeps concurrent handlers isolated from further
// mutation once the slice has been taken.
type Slice struct {
	Root      string
	Documents map[string]Document
}

// Get looks up a document within the slice.
func (sl Slice) Get(uri string) (Document, bool) {
	d, ok := sl.Documents[NormalizeURI(uri)]
	return d, ok
}

// Slice computes the BFS inclusion closure of uri's project. Traversal
// starts at uri's project root rather than uri itself, so a request scoped
// to an included chapter still sees its parent document and siblings.
// Traversal is cycle-safe (a visited set, not a recursion depth check) and,
// when MaxSliceDepth is positive, stops growing past that many inclusion
// hops so a pathological include cycle can't make a single request hold
// the whole project.
func (s *Store) Slice(uri string) Slice {
	uri = NormalizeURI(uri)
	out := make(map[string]Document)

	if _, ok := s.docs[uri]; !ok {
		return Slice{Root: uri, Documents: out}
	}
	start := s.ProjectRoot(uri)
	startDoc, ok := s.docs[start]
	if !ok {
		start = uri
		startDoc = s.docs[uri]
	}
	visited := map[string]struct{}{start: {}}
	out[start] = startDoc

	type queued struct {
		uri   string
		depth int
	}
	queue := []queued{{uri: start, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		doc, ok := s.docs[cur.uri]
		if !ok {
			continue
		}
		if s.MaxSliceDepth > 0 && cur.depth >= s.MaxSliceDepth {
			continue
		}

		for _, ref := range doc.Inclusions {
			target, ok := s.resolveInclusion(cur.uri, ref)
			if !ok {
				continue
			}
			target = NormalizeURI(target)
			if _, seen := visited[target]; seen {
				continue
			}
			visited[target] = struct{}{}

			targetDoc, ok := s.docs[target]
			if !ok {
				continue
			}
			out[target] = targetDoc
			queue = append(queue, queued{uri: target, depth: cur.depth + 1})
		}
	}

	// The requested document is always part of its own slice, even when
	// the root's forward closure stops short of re-reaching it.
	if doc, ok := s.docs[uri]; ok {
		out[uri] = doc
	}

	return Slice{Root: uri, Documents: out}
}

// resolveInclusion turns an InclusionRef found in fromURI's text into a
// concrete, already-loaded document URI, lazily loading the target from
// disk (or, failing that, from the configured distribution) if it isn't
// open yet. A miss returns ok == false rather than an error: an unresolved
// \input is reported as a diagnostic by a collaborator feature, not here.
func (s *Store) resolveInclusion(fromURI string, ref InclusionRef) (string, bool) {
	fromPath, err := URIToPath(fromURI)
	if err != nil {
		return "", false
	}
	baseDir := filepath.Dir(fromPath)

	candidates := inclusionCandidatePaths(ref.Target, ref.SearchExt)

	for _, cand := range candidates {
		path := cand
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		uri := NormalizeURI(PathToURI(path))
		if _, ok := s.docs[uri]; ok {
			return uri, true
		}
	}

	for _, cand := range candidates {
		path := cand
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		if doc, err := s.Load(path); err == nil {
			return doc.URI, true
		}
	}

	if s.Environment.Resolver != nil {
		for _, cand := range candidates {
			if resolved, ok := s.Environment.Resolver.Resolve(filepath.Base(cand)); ok {
				if doc, err := s.Load(resolved); err == nil {
					return doc.URI, true
				}
			}
		}
	}

	return "", false
}

// inclusionCandidatePaths expands target into the filenames tried, in
// order: the literal target, then target with searchExt appended when
// target has no extension of its own.
func inclusionCandidatePaths(target, searchExt string) []string {
	candidates := []string{target}
	if searchExt != "" && filepath.Ext(target) == "" {
		candidates = append(candidates, target+searchExt)
	}
	return candidates
}

// ProjectRoot resolves the document that should drive a build for uri: the
// furthest ancestor reachable by walking inclusion edges backwards, never a
// build-log document. Ties among multiple parents (an include cycle, or a
// document included from more than one place) are broken lexicographically
// by URI so the answer is deterministic across runs.
func (s *Store) ProjectRoot(uri string) string {
	uri = NormalizeURI(uri)
	parents := s.reverseEdges()

	visited := map[string]struct{}{}
	cur := uri
	for {
		if _, seen := visited[cur]; seen {
			return cur
		}
		visited[cur] = struct{}{}

		ps := parents[cur]
		if len(ps) == 0 {
			return cur
		}
		sort.Strings(ps)
		next := ps[0]
		if doc, ok := s.docs[next]; ok && doc.Language == BuildLog {
			return cur
		}
		cur = next
	}
}

// reverseEdges builds, for every document, the set of URIs that include it.
func (s *Store) reverseEdges() map[string][]string {
	parents := make(map[string][]string)
	for fromURI, doc := range s.docs {
		for _, ref := range doc.Inclusions {
			target, ok := s.resolveInclusion(fromURI, ref)
			if !ok {
				continue
			}
			parents[target] = append(parents[target], fromURI)
		}
	}
	return parents
}

// normalizedHasPrefix reports whether uri names a path under dir, comparing
// both in normalized form. Nothing in the module calls it at present;
// workspace/symbol does not filter by workspace folder.
func normalizedHasPrefix(uri, dir string) bool {
	return strings.HasPrefix(NormalizeURI(uri), NormalizeURI(dir))
}
