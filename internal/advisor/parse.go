package advisor

import "strings"

// ParseIdeas splits a provider's free-form response into discrete gift-idea
// strings: blank-line separated blocks, markdown emphasis markers stripped,
// colons replaced with " -". Order follows the source text. Text with no
// blank-line separator yields a single entry; empty text yields none.
func ParseIdeas(raw string) []string {
	blocks := strings.Split(raw, "\n\n")
	ideas := make([]string, 0, len(blocks))

	for _, block := range blocks {
		if strings.TrimSpace(block) == "" {
			continue
		}
		idea := strings.ReplaceAll(block, "*", "")
		idea = strings.ReplaceAll(idea, ":", " -")
		ideas = append(ideas, strings.TrimSpace(idea))
	}

	return ideas
}
