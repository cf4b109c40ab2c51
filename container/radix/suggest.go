package radix

import (
	"slices"
	"strings"

	"github.com/chenjie199234/Dictionary/cerror"
)

type Suggestion struct {
	Word     string `json:"word"`
	Distance int    `json:"distance"`
}

// Suggest returns at most limit words whose levenshtein distance to word is <= maxDistance
// result is ordered by distance first,then alphabetical
// if word itself exists,only word is returned with distance 0
func (t *Trie) Suggest(word string, maxDistance, limit int) ([]Suggestion, error) {
	if maxDistance < 0 || limit <= 0 {
		return nil, cerror.ErrReq
	}
	word, e := Normalize(word)
	if e != nil {
		return nil, e
	}
	if ok, _ := t.Contains(word); ok {
		return []Suggestion{{Word: word, Distance: 0}}, nil
	}
	//distance from the empty path to every prefix of word
	row := make([]int, len(word)+1)
	for i := range row {
		row[i] = i
	}
	var result []Suggestion
	path := make([]byte, 0, 64)
	for _, child := range t.root.children {
		if child != nil {
			result = suggest(child, word, row, path, maxDistance, result)
		}
	}
	slices.SortFunc(result, func(a, b Suggestion) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return strings.Compare(a.Word, b.Word)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// prev[j] is the distance between the path above n and word[:j]
// a subtree is skipped once no cell of the row can get back under maxDistance
func suggest(n *node, word string, prev []int, path []byte, maxDistance int, result []Suggestion) []Suggestion {
	for i := 0; i < len(n.label); i++ {
		c := n.label[i]
		path = append(path, c)
		cur := make([]int, len(prev))
		cur[0] = prev[0] + 1
		lowest := cur[0]
		for j := 1; j < len(prev); j++ {
			cost := 1
			if word[j-1] == c {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			lowest = min(lowest, cur[j])
		}
		if lowest > maxDistance {
			return result
		}
		prev = cur
	}
	if d := prev[len(word)]; n.terminal && d <= maxDistance {
		result = append(result, Suggestion{Word: string(path), Distance: d})
	}
	for _, child := range n.children {
		if child != nil {
			result = suggest(child, word, prev, path, maxDistance, result)
		}
	}
	return result
}
