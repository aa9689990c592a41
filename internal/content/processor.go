package content

import (
	"strings"
)

// metaCommentaryPhrases mark lines where the model is explaining
// itself rather than emitting study content. Matched as
// case-insensitive substrings, not exact lines.
var metaCommentaryPhrases = []string{
	"here's an analysis",
	"here is an analysis",
	"based on the",
	"analyzing the",
	"in this response",
	"i have identified",
}

// Processor turns raw AI response lines into classified study items.
// Stateless; the zero value is ready to use.
type Processor struct{}

// NewProcessor creates a new Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// ProcessAIResponse classifies raw AI output lines into items, in
// input order. Empty lines and meta-commentary are dropped. Labeled
// lines take their label's type; unlabeled lines are classified by
// heuristic. No item is ever emitted with empty content.
func (p *Processor) ProcessAIResponse(lines []string) []Item {
	var items []Item

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isMetaCommentary(trimmed) {
			continue
		}

		if contentType, ok := DetectFromLine(trimmed); ok {
			extracted := ExtractContent(trimmed)
			if extracted == "" {
				continue
			}
			items = append(items, Item{Content: extracted, Type: contentType})
			continue
		}

		items = append(items, Item{
			Content: trimmed,
			Type:    DetectFromContent(trimmed),
		})
	}

	return items
}

// SplitLines is a convenience wrapper for callers holding a whole
// response as one string.
func (p *Processor) SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// isMetaCommentary reports whether a line matches the denylist of
// model self-narration phrases.
func isMetaCommentary(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range metaCommentaryPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
