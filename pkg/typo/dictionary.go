// Package typo holds the keyword misspelling dictionary and the correctors
// built on it.
//
// A Dictionary is safe for concurrent use. Readers work on an immutable
// Snapshot; Add publishes a new snapshot, so an analysis that already
// loaded one keeps seeing the old table.
package typo

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/leapstack-labs/minilang/pkg/token"
)

// Entry is a single misspelling and its canonical form.
type Entry struct {
	Typo       string `json:"typo" yaml:"typo"`
	Correction string `json:"correction" yaml:"correction"`
}

// Dictionary maps misspelled words to canonical words.
type Dictionary struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[Snapshot]
}

// New returns an empty dictionary.
func New() *Dictionary {
	d := &Dictionary{}
	d.snap.Store(newSnapshot(map[string]string{}))
	return d
}

// NewDefault returns a dictionary seeded with the built-in misspellings.
func NewDefault() *Dictionary {
	d := &Dictionary{}
	d.snap.Store(newSnapshot(Defaults()))
	return d
}

// Snapshot returns the current immutable view.
func (d *Dictionary) Snapshot() *Snapshot {
	return d.snap.Load()
}

// Add inserts or overwrites an entry. It reports false, leaving the
// dictionary unchanged, when either word is empty or not identifier
// shaped, or when the entry would form a cycle. A word mapped to itself is
// accepted and changes nothing.
func (d *Dictionary) Add(misspelling, canonical string) bool {
	if !token.IsIdentifier(misspelling) || !token.IsIdentifier(canonical) {
		return false
	}
	if misspelling == canonical {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.snap.Load()
	if cur.entries[misspelling] == canonical {
		return true
	}
	// canonical must not lead back to misspelling.
	for w, ok := canonical, true; ok; w, ok = cur.entries[w] {
		if w == misspelling {
			return false
		}
	}

	next := make(map[string]string, len(cur.entries)+1)
	for k, v := range cur.entries {
		next[k] = v
	}
	next[misspelling] = canonical
	d.snap.Store(newSnapshot(next))
	return true
}

// Seed adds every entry of seeds, in key order. It stops at the first
// entry Add rejects.
func (d *Dictionary) Seed(seeds map[string]string) error {
	keys := make([]string, 0, len(seeds))
	for k := range seeds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !d.Add(k, seeds[k]) {
			return fmt.Errorf("invalid typo entry %q -> %q", k, seeds[k])
		}
	}
	return nil
}

// Entries returns the current entries sorted by misspelling.
func (d *Dictionary) Entries() []Entry {
	return d.Snapshot().Entries()
}

// Lookup returns the canonical form configured for word.
func (d *Dictionary) Lookup(word string) (string, bool) {
	return d.Snapshot().Lookup(word)
}

// RewriteText rewrites text against the current snapshot.
func (d *Dictionary) RewriteText(text string) (string, []Correction) {
	return d.Snapshot().RewriteText(text)
}

// Snapshot is an immutable view of a Dictionary.
type Snapshot struct {
	entries  map[string]string // as added
	resolved map[string]string // misspelling -> end of its chain
	pattern  *regexp.Regexp    // nil when empty
}

func newSnapshot(entries map[string]string) *Snapshot {
	s := &Snapshot{
		entries:  entries,
		resolved: make(map[string]string, len(entries)),
	}
	if len(entries) == 0 {
		return s
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
		w := entries[k]
		for next, ok := entries[w]; ok; next, ok = entries[w] {
			w = next
		}
		s.resolved[k] = w
	}
	// Longest first so a key is never shadowed by one of its prefixes.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for i, k := range keys {
		keys[i] = regexp.QuoteMeta(k)
	}
	s.pattern = regexp.MustCompile(`\b(?:` + strings.Join(keys, "|") + `)\b`)
	return s
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Lookup returns the canonical form for word, following chained entries.
func (s *Snapshot) Lookup(word string) (string, bool) {
	v, ok := s.resolved[word]
	return v, ok
}

// Entries returns the entries sorted by misspelling.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for k, v := range s.entries {
		out = append(out, Entry{Typo: k, Correction: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Typo < out[j].Typo })
	return out
}
