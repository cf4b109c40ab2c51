package radix

import (
	"github.com/chenjie199234/Dictionary/cerror"
)

// only [a-z] can be stored,[A-Z] will be folded into [a-z]
const alphabet = 26

func index(c byte) (int, bool) {
	if c < 'a' || c > 'z' {
		return 0, false
	}
	return int(c - 'a'), true
}

// normalize folds [A-Z] into [a-z]
// any other byte fails with cerror.ErrInvalidWord
// the empty string is returned as is,callers decide what empty means
func normalize(word string) (string, error) {
	var folded []byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		if _, ok := index(c); ok {
			continue
		}
		if c < 'A' || c > 'Z' {
			return "", cerror.ErrInvalidWord
		}
		if folded == nil {
			folded = []byte(word)
		}
		folded[i] = c + ('a' - 'A')
	}
	if folded == nil {
		return word, nil
	}
	return string(folded), nil
}

// Normalize returns the stored form of word
// it fails with cerror.ErrInvalidWord when word is empty or contains bytes out of [a-z][A-Z]
func Normalize(word string) (string, error) {
	if word == "" {
		return "", cerror.ErrInvalidWord
	}
	return normalize(word)
}
