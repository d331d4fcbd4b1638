package agent

import (
	"strings"

	"golang.org/x/text/cases"
)

// keywordSourceCap bounds how much of the title and gap feeds keyword
// extraction.
const keywordSourceCap = 150

// keywordFolder performs Unicode case folding so mixed-case titles match
// the lowercase filler list.
var keywordFolder = cases.Fold()

var fillerWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "but": {},
	"has": {}, "have": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "been": {}, "being": {},
}

// searchKeywords builds an arXiv query from an insight's title and gap.
// Short and filler words are dropped, the first five survivors plus the
// run topic form the query.
func searchKeywords(title, gap, topic string) string {
	combined := clip(title+" "+gap, keywordSourceCap)

	var keywords []string
	for _, w := range strings.Fields(keywordFolder.String(combined)) {
		if len(w) <= 4 {
			continue
		}
		if _, filler := fillerWords[w]; filler {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == 5 {
			break
		}
	}
	keywords = append(keywords, topic)
	return strings.Join(keywords, " ")
}
