package filter

import "strings"

// Filter decides whether a posting is worth alerting on, by case-insensitive
// substring match against a fixed keyword set. It holds no mutable state and
// is safe for concurrent use.
type Filter struct {
	keywords []string
}

// New pre-lowercases the keyword set; blank entries are dropped. An empty
// set means every posting is relevant.
func New(keywords []string) *Filter {
	prepared := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			prepared = append(prepared, kw)
		}
	}
	return &Filter{keywords: prepared}
}

// Relevant reports whether any keyword occurs in the combined title and
// summary text.
func (f *Filter) Relevant(title, summary string) bool {
	if len(f.keywords) == 0 {
		return true
	}

	haystack := strings.ToLower(title + " " + summary)
	for _, kw := range f.keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
