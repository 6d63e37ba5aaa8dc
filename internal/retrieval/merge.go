package retrieval

import "github.com/ppiankov/factscope/internal/model"

// Merge concatenates evidence lists, dropping items whose URL was already
// seen. The first item with a given URL wins; items without a URL are
// never considered duplicates.
func Merge(lists ...[]model.Evidence) []model.Evidence {
	seen := make(map[string]bool)
	merged := []model.Evidence{}
	for _, list := range lists {
		for _, ev := range list {
			if ev.URL != "" {
				if seen[ev.URL] {
					continue
				}
				seen[ev.URL] = true
			}
			merged = append(merged, ev)
		}
	}
	return merged
}

func truncate(evidence []model.Evidence, n int) []model.Evidence {
	if n > 0 && len(evidence) > n {
		return evidence[:n]
	}
	return evidence
}
