package filter

import (
	"strings"
)

// KeywordFilter matches lines containing a literal keyword.
type KeywordFilter struct {
	keyword string
}

// NewKeywordFilter creates a filter that matches lines containing the keyword.
func NewKeywordFilter(keyword string) *KeywordFilter {
	return &KeywordFilter{keyword: keyword}
}

// Find returns the location of the first occurrence of the keyword.
func (f *KeywordFilter) Find(text string) []int {
	i := strings.Index(text, f.keyword)
	if i < 0 {
		return nil
	}
	return []int{i, i + len(f.keyword)}
}

// Name returns the filter description.
func (f *KeywordFilter) Name() string {
	return "keyword:" + f.keyword
}
