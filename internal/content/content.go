// Package content classifies raw AI-generated response lines into
// typed study items (topics and questions) for the Professor AI
// service, filtering out model meta-commentary.
package content

import (
	"strings"
)

// ContentType identifies what kind of study content an item holds.
type ContentType string

// Supported content types.
const (
	TypeTopic    ContentType = "topic"
	TypeQuestion ContentType = "question"
)

// Labels recognized at the start of a line, optionally preceded by a
// dash bullet. Matching is case-sensitive.
const (
	topicLabel    = "TOPIC:"
	questionLabel = "QUESTION:"
)

// Item is a classified fragment of AI output. Content is always
// trimmed and non-empty.
type Item struct {
	Content string
	Type    ContentType
}

// interrogativeWords open a question when a line carries no explicit
// label. Compared case-insensitively against the first word.
var interrogativeWords = []string{
	"what", "how", "why", "when", "where", "who", "which",
	"is", "are", "does", "do", "can", "could", "would",
}

// DetectFromLine recognizes an optional leading dash bullet followed
// by a TOPIC: or QUESTION: label. The second return value reports
// whether a label was found.
func DetectFromLine(line string) (ContentType, bool) {
	stripped := stripBullet(strings.TrimSpace(line))
	switch {
	case strings.HasPrefix(stripped, topicLabel):
		return TypeTopic, true
	case strings.HasPrefix(stripped, questionLabel):
		return TypeQuestion, true
	default:
		return "", false
	}
}

// ExtractContent strips the optional leading bullet and any recognized
// label, returning the remainder trimmed. A line with no label comes
// back trimmed as-is, so the function is idempotent on clean input.
func ExtractContent(line string) string {
	stripped := stripBullet(strings.TrimSpace(line))
	switch {
	case strings.HasPrefix(stripped, topicLabel):
		return strings.TrimSpace(strings.TrimPrefix(stripped, topicLabel))
	case strings.HasPrefix(stripped, questionLabel):
		return strings.TrimSpace(strings.TrimPrefix(stripped, questionLabel))
	default:
		return strings.TrimSpace(line)
	}
}

// DetectFromContent classifies an unlabeled line: a question when it
// ends with a question mark or opens with an interrogative word,
// otherwise a topic. Ambiguous declarative content defaults to topic.
func DetectFromContent(text string) ContentType {
	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, "?") {
		return TypeQuestion
	}

	firstWord := trimmed
	if idx := strings.IndexAny(trimmed, " \t"); idx >= 0 {
		firstWord = trimmed[:idx]
	}
	firstWord = strings.ToLower(firstWord)
	for _, w := range interrogativeWords {
		if firstWord == w {
			return TypeQuestion
		}
	}

	return TypeTopic
}

// stripBullet removes a single leading dash marker and the whitespace
// after it. Only the label check uses the stripped form; extraction
// re-trims from the original line.
func stripBullet(line string) string {
	if strings.HasPrefix(line, "-") {
		return strings.TrimSpace(strings.TrimPrefix(line, "-"))
	}
	return line
}
