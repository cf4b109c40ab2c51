package radix

import (
	"iter"
	"strings"
)

// Trie is a radix(patricia) tree over [a-z] words
// thread unsafe
type Trie struct {
	root  node
	count int
}

type node struct {
	children [alphabet]*node
	label    string
	terminal bool
}

func New() *Trie {
	return &Trie{}
}

// slot returns the child slot for the remaining word
// word must be normalized and not empty
func (n *node) slot(word string) **node {
	i, _ := index(word[0])
	return &n.children[i]
}

// Insert adds word into the tree,inserting an exist word again changes nothing
// when word is invalid,cerror.ErrInvalidWord is returned and the tree is not touched
func (t *Trie) Insert(word string) error {
	word, e := Normalize(word)
	if e != nil {
		return e
	}
	slot := t.root.slot(word)
	added := false
	*slot = insert(*slot, word, &added)
	if added {
		t.count++
	}
	return nil
}

// insert returns the node that should occupy the slot after word is inserted under n
func insert(n *node, word string, added *bool) *node {
	if n == nil {
		*added = true
		return &node{label: word, terminal: true}
	}
	if n.label == word {
		if !n.terminal {
			n.terminal = true
			*added = true
		}
		return n
	}
	common := lcp(word, n.label)
	if common == len(n.label) {
		//n's label is the prefix of the word
		rest := word[common:]
		slot := n.slot(rest)
		*slot = insert(*slot, rest, added)
		return n
	}
	//diverge inside n's label,split it
	split := &node{label: word[:common], terminal: common == len(word)}
	//move n under the split node first,then shorten it's label
	*split.slot(n.label[common:]) = n
	n.label = n.label[common:]
	if common == len(word) {
		*added = true
		return split
	}
	rest := word[common:]
	slot := split.slot(rest)
	*slot = insert(*slot, rest, added)
	return split
}

func lcp(a, b string) int {
	l := min(len(a), len(b))
	for i := 0; i < l; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return l
}

// Contains reports whether word itself was inserted
// the empty word is never contained
func (t *Trie) Contains(word string) (bool, error) {
	if word == "" {
		return false, nil
	}
	word, e := normalize(word)
	if e != nil {
		return false, e
	}
	n := *t.root.slot(word)
	for n != nil {
		if !strings.HasPrefix(word, n.label) {
			return false, nil
		}
		if len(word) == len(n.label) {
			return n.terminal, nil
		}
		word = word[len(n.label):]
		n = *n.slot(word)
	}
	return false, nil
}

// HasPrefix reports whether any inserted word starts with prefix
// the empty prefix is always true
func (t *Trie) HasPrefix(prefix string) (bool, error) {
	if prefix == "" {
		return true, nil
	}
	prefix, e := normalize(prefix)
	if e != nil {
		return false, e
	}
	n, _ := t.locate(prefix)
	return n != nil, nil
}

// locate finds the highest node whose path extends prefix
// consumed is the length of prefix covered by the nodes above the returned one
// prefix must be normalized and not empty
func (t *Trie) locate(prefix string) (n *node, consumed int) {
	n = *t.root.slot(prefix)
	for n != nil {
		if strings.HasPrefix(n.label, prefix) {
			return n, consumed
		}
		if !strings.HasPrefix(prefix, n.label) {
			return nil, 0
		}
		consumed += len(n.label)
		prefix = prefix[len(n.label):]
		n = *n.slot(prefix)
	}
	return nil, 0
}

// Len returns the number of distinct words
func (t *Trie) Len() int {
	return t.count
}

// Words returns all words in alphabetical order
// every range over the result walks the tree again
func (t *Trie) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		walk(&t.root, make([]byte, 0, 64), yield)
	}
}

// WordsWithPrefix returns all words start with prefix in alphabetical order
func (t *Trie) WordsWithPrefix(prefix string) (iter.Seq[string], error) {
	if prefix == "" {
		return t.Words(), nil
	}
	prefix, e := normalize(prefix)
	if e != nil {
		return nil, e
	}
	n, consumed := t.locate(prefix)
	return func(yield func(string) bool) {
		if n == nil {
			return
		}
		path := make([]byte, 0, 64)
		path = append(path, prefix[:consumed]...)
		walk(n, path, yield)
	}, nil
}

// a node's own word is a proper prefix of all words below it,so it is emitted first
func walk(n *node, path []byte, yield func(string) bool) bool {
	path = append(path, n.label...)
	if n.terminal && !yield(string(path)) {
		return false
	}
	for _, child := range n.children {
		if child != nil && !walk(child, path, yield) {
			return false
		}
	}
	return true
}
