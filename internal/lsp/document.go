package lsp

import (
	"strings"
	"sync"
)

// Document is an open text document.
type Document struct {
	URI     string
	Content string
	Version int
	lines   []int // byte offset of each line start
}

func newDocument(uri, content string, version int) *Document {
	return &Document{
		URI:     uri,
		Content: content,
		Version: version,
		lines:   lineOffsets(content),
	}
}

// DocumentStore holds the open documents. Documents are replaced, never
// mutated, so a *Document read from the store is safe to use unlocked.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{documents: make(map[string]*Document)}
}

// Open adds or replaces a document.
func (s *DocumentStore) Open(uri, content string, version int) *Document {
	doc := newDocument(uri, content, version)
	s.mu.Lock()
	s.documents[uri] = doc
	s.mu.Unlock()
	return doc
}

// Update replaces the content of an open document. It returns nil when the
// document is not open.
func (s *DocumentStore) Update(uri, content string, version int) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[uri]; !ok {
		return nil
	}
	doc := newDocument(uri, content, version)
	s.documents[uri] = doc
	return doc
}

// Close removes a document.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.documents, uri)
	s.mu.Unlock()
}

// Get returns the document for uri, or nil.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documents[uri]
}

// Len returns the number of open documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

func lineOffsets(content string) []int {
	offsets := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// PositionToOffset converts an LSP position to a byte offset, clamped to
// the document.
func (d *Document) PositionToOffset(pos Position) int {
	line := int(pos.Line)
	if line >= len(d.lines) {
		return len(d.Content)
	}
	end := len(d.Content)
	if line+1 < len(d.lines) {
		end = d.lines[line+1] - 1
	}
	return min(d.lines[line]+int(pos.Character), end)
}

// OffsetToPosition converts a byte offset to an LSP position.
func (d *Document) OffsetToPosition(offset int) Position {
	offset = max(0, min(offset, len(d.Content)))
	line := 0
	for i, start := range d.lines {
		if start > offset {
			break
		}
		line = i
	}
	return Position{Line: uint32(line), Character: uint32(offset - d.lines[line])} //nolint:gosec // G115: both are non-negative
}

// RangeOf returns the range covering n bytes from offset.
func (d *Document) RangeOf(offset, n int) Range {
	return Range{Start: d.OffsetToPosition(offset), End: d.OffsetToPosition(offset + n)}
}

// FullRange covers the whole document.
func (d *Document) FullRange() Range {
	return d.RangeOf(0, len(d.Content))
}

// WordBefore returns the identifier characters immediately before pos.
func (d *Document) WordBefore(pos Position) string {
	end := d.PositionToOffset(pos)
	start := end
	for start > 0 && isWordChar(d.Content[start-1]) {
		start--
	}
	return d.Content[start:end]
}

func isWordChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
