package claims

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ppiankov/factscope/internal/model"
)

// MinClaimTokens is the shortest sentence, in whitespace tokens, kept as a claim
const MinClaimTokens = 6

// SplitSentences cuts text after every '.', '!' or '?' that is followed by
// whitespace. The whitespace run between sentences is dropped.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}

		sentences = append(sentences, string(runes[start:i+1]))

		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

// FallbackSplit turns every sentence of at least MinClaimTokens tokens into a
// claim. IDs are claim-<n> where n is the 1-based position of the sentence in
// the text, counting the sentences that were too short.
func FallbackSplit(text, language string) []model.Claim {
	var claims []model.Claim
	for i, sentence := range SplitSentences(text) {
		snippet := strings.TrimSpace(sentence)
		if len(strings.Fields(snippet)) < MinClaimTokens {
			continue
		}
		id := "claim-" + strconv.Itoa(i+1)
		c := model.NewClaim(id, snippet, language, nil).WithMetadata("sentence_index", i)
		claims = append(claims, c)
	}
	return claims
}
