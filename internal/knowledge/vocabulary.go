package knowledge

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

const (
	minTokenLen = 4
	maxDistance = 2
)

// CorrectEntities rewrites near-miss spellings of known entity names in the
// question to their canonical form. Only whole tokens are replaced, and only
// against the leading word of each vocabulary entry — enough to turn
// "expedai" into "EXPEDIA, INC." territory without touching ordinary words.
// Exact matches (distance 0) are left alone. The rewrite is deterministic:
// candidates are scanned in sorted order and the smallest edit distance wins,
// ties going to the lexicographically first word.
func CorrectEntities(question string, vocab []string) string {
	words := make(map[string]string, len(vocab))
	for _, v := range vocab {
		first := strings.FieldsFunc(v, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len(first) == 0 || len(first[0]) < minTokenLen+1 {
			continue
		}
		words[strings.ToLower(first[0])] = first[0]
	}
	keys := make([]string, 0, len(words))
	for w := range words {
		keys = append(keys, w)
	}
	sort.Strings(keys)

	tokens := strings.Fields(question)
	changed := false
	for i, tok := range tokens {
		trimmed := strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len(trimmed) < minTokenLen+1 {
			continue
		}
		lower := strings.ToLower(trimmed)
		if _, exact := words[lower]; exact {
			continue
		}
		best := maxDistance + 1
		canonical := ""
		for _, w := range keys {
			if d := levenshtein.ComputeDistance(lower, w); d < best {
				best = d
				canonical = words[w]
			}
		}
		if best <= maxDistance {
			tokens[i] = strings.Replace(tok, trimmed, canonical, 1)
			changed = true
		}
	}
	if !changed {
		return question
	}
	return strings.Join(tokens, " ")
}
