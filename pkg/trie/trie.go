// Package trie implements the prefix index that stores the vocabulary.
//
// An Index maps words to their definition and insertion time. Lookups are
// exact or by prefix; enumeration is always in ascending word order.
// An Index is not safe for concurrent use; callers serialize access.
package trie

import (
	"sort"
	"time"
)

// Entry is a stored word with its definition and insertion time.
type Entry struct {
	Word       string
	Definition string
	InsertedAt time.Time
}

type node struct {
	children   map[byte]*node
	terminal   bool
	definition string
	insertedAt time.Time
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// needed reports whether the node must stay in the tree.
func (n *node) needed() bool {
	return n.terminal || len(n.children) > 0
}

// Index is a byte-keyed prefix tree of words. Words need not be valid
// UTF-8; distinct byte strings always stay distinct.
type Index struct {
	root  *node
	count int
}

// New returns an empty Index.
func New() *Index {
	return &Index{root: newNode()}
}

// Insert stores word with its definition and timestamp. Inserting an
// existing word overwrites both. It returns false only for an empty word.
func (ix *Index) Insert(word, definition string, insertedAt time.Time) bool {
	if word == "" {
		return false
	}
	n := ix.root
	for i := 0; i < len(word); i++ {
		b := word[i]
		child, ok := n.children[b]
		if !ok {
			child = newNode()
			n.children[b] = child
		}
		n = child
	}
	if !n.terminal {
		ix.count++
	}
	n.terminal = true
	n.definition = definition
	n.insertedAt = insertedAt
	return true
}

// Search looks up word exactly.
func (ix *Index) Search(word string) (Entry, bool) {
	n := ix.find(word)
	if n == nil || !n.terminal {
		return Entry{}, false
	}
	return Entry{Word: word, Definition: n.definition, InsertedAt: n.insertedAt}, true
}

// PrefixSearch returns every word starting with prefix, sorted ascending.
// The empty prefix matches every word.
func (ix *Index) PrefixSearch(prefix string) []Entry {
	n := ix.find(prefix)
	if n == nil {
		return nil
	}
	var out []Entry
	collect(n, []byte(prefix), &out)
	// Child maps are unordered, so the DFS order means nothing.
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// All returns every stored word, sorted ascending.
func (ix *Index) All() []Entry {
	return ix.PrefixSearch("")
}

// Len returns the number of stored words.
func (ix *Index) Len() int {
	return ix.count
}

// Delete removes word and prunes the branch nodes it no longer needs.
// It returns false when the word is not stored.
func (ix *Index) Delete(word string) bool {
	if word == "" {
		return false
	}
	type step struct {
		parent *node
		key    byte
	}
	path := make([]step, 0, len(word))
	n := ix.root
	for i := 0; i < len(word); i++ {
		b := word[i]
		child, ok := n.children[b]
		if !ok {
			return false
		}
		path = append(path, step{parent: n, key: b})
		n = child
	}
	if !n.terminal {
		return false
	}
	n.terminal = false
	n.definition = ""
	n.insertedAt = time.Time{}
	ix.count--

	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		if s.parent.children[s.key].needed() {
			break
		}
		delete(s.parent.children, s.key)
	}
	return true
}

func (ix *Index) find(key string) *node {
	n := ix.root
	for i := 0; i < len(key); i++ {
		child, ok := n.children[key[i]]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

func collect(n *node, path []byte, out *[]Entry) {
	if n.terminal {
		*out = append(*out, Entry{
			Word:       string(path),
			Definition: n.definition,
			InsertedAt: n.insertedAt,
		})
	}
	for b, child := range n.children {
		collect(child, append(path, b), out)
	}
}
