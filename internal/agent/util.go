package agent

import (
	"fmt"
	"strings"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
)

// stagePaperCap limits how many papers the dialogue stages look at.
const stagePaperCap = 5

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// orDefault returns s, or def when s is empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// capPapers returns the first n papers.
func capPapers(papers []model.Paper, n int) []model.Paper {
	if len(papers) > n {
		return papers[:n]
	}
	return papers
}

// fieldSection renders the shared domain-knowledge block of a stage prompt.
// Empty context yields an empty section.
func fieldSection(fieldContext, usage string) string {
	if fieldContext == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nFIELD CONTEXT (Your Domain Knowledge):\n")
	b.WriteString(fieldContext)
	b.WriteString("\n\nUse this to:\n")
	b.WriteString(usage)
	b.WriteString("\n")
	return b.String()
}

// intsToDisplay formats paper index lists for prompt and dialogue text.
func intsToDisplay(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
