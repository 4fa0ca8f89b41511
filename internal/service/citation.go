package service

import (
	"fmt"
	"sort"

	"github.com/xiaot623/postcard/internal/domain"
)

// numberCitations keeps the citation annotations, orders them by end_index
// descending and numbers them from len down to 1 in that order.
func numberCitations(annotations []domain.Annotation) []domain.Citation {
	var citations []domain.Citation
	for _, a := range annotations {
		if a.Type != domain.AnnotationTypeCitation {
			continue
		}
		citations = append(citations, domain.Citation{
			ID:        a.ID,
			URL:       a.URL,
			Title:     a.Title,
			CitedText: a.CitedText,
			EndIndex:  a.EndIndex,
		})
	}

	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].EndIndex > citations[j].EndIndex
	})
	for i := range citations {
		citations[i].CitationNumber = len(citations) - i
	}
	return citations
}

// formatCitations splices "[[n]](url)" markers into text at each positive
// end_index. Offsets are rune offsets clamped to the text length; citations
// must be ordered by end_index descending so earlier offsets stay valid.
func formatCitations(text string, citations []domain.Citation) string {
	runes := []rune(text)
	for _, c := range citations {
		if c.EndIndex <= 0 {
			continue
		}
		at := c.EndIndex
		if at > len(runes) {
			at = len(runes)
		}
		marker := []rune(fmt.Sprintf("[[%d]](%s)", c.CitationNumber, c.URL))

		spliced := make([]rune, 0, len(runes)+len(marker))
		spliced = append(spliced, runes[:at]...)
		spliced = append(spliced, marker...)
		spliced = append(spliced, runes[at:]...)
		runes = spliced
	}
	return string(runes)
}
