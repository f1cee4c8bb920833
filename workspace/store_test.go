package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenEmitsChangeEvent(t *testing.T) {
	s := NewStore(t.TempDir())
	ch := make(chan ChangeEvent, 1)
	s.Subscribe(ch)

	doc := s.Open("file:///main.tex", "\\documentclass{article}", LaTeX)
	assert.Equal(t, LaTeX, doc.Language)

	select {
	case ev := <-ch:
		assert.Equal(t, doc.URI, ev.URI)
	default:
		t.Fatal("expected a ChangeEvent from Open")
	}
}

func TestRemoveEmitsNoEvent(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Open("file:///main.tex", "hello", LaTeX)

	ch := make(chan ChangeEvent, 1)
	s.Subscribe(ch)
	s.Remove("file:///main.tex")

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event on remove: %+v", ev)
	default:
	}

	_, ok := s.Get("file:///main.tex")
	assert.False(t, ok)
}

func TestCloseKeepsDocumentOutOfViewportOnly(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Open("file:///main.tex", "hello", LaTeX)
	s.Viewport("file:///main.tex")
	require.True(t, s.InViewport("file:///main.tex"))

	s.Close("file:///main.tex")
	assert.False(t, s.InViewport("file:///main.tex"))

	_, ok := s.Get("file:///main.tex")
	assert.True(t, ok, "Close must not remove the document")
}

func TestSliceFollowsInclusions(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.tex")
	chapPath := filepath.Join(dir, "chapter1.tex")
	require.NoError(t, os.WriteFile(chapPath, []byte("hello from chapter"), 0o644))

	s := NewStore(dir)
	mainURI := PathToURI(mainPath)
	s.Open(mainURI, "\\documentclass{article}\\input{chapter1}", LaTeX)

	sl := s.Slice(mainURI)
	assert.Len(t, sl.Documents, 2)

	chapURI := NormalizeURI(PathToURI(chapPath))
	_, ok := sl.Get(chapURI)
	assert.True(t, ok, "expected chapter1.tex to be pulled into the slice")
}

func TestSliceIsCycleSafe(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.tex")
	bPath := filepath.Join(dir, "b.tex")
	require.NoError(t, os.WriteFile(bPath, []byte("\\input{a}"), 0o644))

	s := NewStore(dir)
	aURI := PathToURI(aPath)
	s.Open(aURI, "\\input{b}", LaTeX)

	done := make(chan Slice, 1)
	go func() { done <- s.Slice(aURI) }()

	select {
	case sl := <-done:
		assert.Len(t, sl.Documents, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("Slice did not terminate on a cyclic inclusion graph")
	}
}

func TestReparseEmitsEventPerDocument(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Open("file:///a.tex", "\\input{b}", LaTeX)
	s.Open("file:///b.tex", "hello", LaTeX)

	ch := make(chan ChangeEvent, 4)
	s.Subscribe(ch)
	s.Reparse()

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-ch:
			seen[ev.URI] = true
		default:
			t.Fatal("expected one ChangeEvent per document from Reparse")
		}
	}
	assert.True(t, seen["file:///a.tex"])
	assert.True(t, seen["file:///b.tex"])
}

func TestProjectRootWalksToAncestor(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.tex")
	chapPath := filepath.Join(dir, "chapter1.tex")
	require.NoError(t, os.WriteFile(chapPath, []byte("hello"), 0o644))

	s := NewStore(dir)
	mainURI := PathToURI(mainPath)
	s.Open(mainURI, "\\input{chapter1}", LaTeX)
	s.Slice(mainURI) // force chapter1.tex to load so the reverse edge exists

	chapURI := NormalizeURI(PathToURI(chapPath))
	assert.Equal(t, NormalizeURI(mainURI), s.ProjectRoot(chapURI))
}

func TestProjectRootOfUnreferencedDocumentIsItself(t *testing.T) {
	s := NewStore(t.TempDir())
	uri := "file:///standalone.tex"
	s.Open(uri, "\\documentclass{article}", LaTeX)
	assert.Equal(t, NormalizeURI(uri), s.ProjectRoot(uri))
}
