package content

import (
	"reflect"
	"testing"
)

func TestProcessAIResponseLabeledLines(t *testing.T) {
	p := NewProcessor()

	items := p.ProcessAIResponse([]string{
		"TOPIC: A",
		"",
		"Here's an analysis of X",
		"QUESTION: B?",
	})

	expected := []Item{
		{Content: "A", Type: TypeTopic},
		{Content: "B?", Type: TypeQuestion},
	}
	if !reflect.DeepEqual(items, expected) {
		t.Errorf("Expected %v, got %v", expected, items)
	}
}

func TestProcessAIResponseHeuristicFallback(t *testing.T) {
	p := NewProcessor()

	items := p.ProcessAIResponse([]string{
		"What is light?",
		"Newton's Laws",
	})

	expected := []Item{
		{Content: "What is light?", Type: TypeQuestion},
		{Content: "Newton's Laws", Type: TypeTopic},
	}
	if !reflect.DeepEqual(items, expected) {
		t.Errorf("Expected %v, got %v", expected, items)
	}
}

func TestProcessAIResponseDropsMetaCommentary(t *testing.T) {
	p := NewProcessor()

	// Denylist phrases match as substrings, even mid-sentence
	items := p.ProcessAIResponse([]string{
		"Based on the transcript, here are the key points",
		"Sure - analyzing the lecture now",
		"TOPIC: Thermodynamics",
		"BASED ON THE above",
	})

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d: %v", len(items), items)
	}
	if items[0].Content != "Thermodynamics" || items[0].Type != TypeTopic {
		t.Errorf("Unexpected item: %v", items[0])
	}
}

func TestProcessAIResponseNeverEmitsEmptyContent(t *testing.T) {
	p := NewProcessor()

	items := p.ProcessAIResponse([]string{
		"",
		"   ",
		"TOPIC:",
		"- QUESTION:   ",
		"TOPIC: Valid",
	})

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d: %v", len(items), items)
	}
	for _, item := range items {
		if item.Content == "" {
			t.Errorf("Emitted item with empty content: %v", item)
		}
	}
}

func TestProcessAIResponsePreservesOrderNoDedup(t *testing.T) {
	p := NewProcessor()

	items := p.ProcessAIResponse([]string{
		"TOPIC: Repeated",
		"QUESTION: Why?",
		"TOPIC: Repeated",
	})

	expected := []Item{
		{Content: "Repeated", Type: TypeTopic},
		{Content: "Why?", Type: TypeQuestion},
		{Content: "Repeated", Type: TypeTopic},
	}
	if !reflect.DeepEqual(items, expected) {
		t.Errorf("Expected %v, got %v", expected, items)
	}
}

func TestSplitLines(t *testing.T) {
	p := NewProcessor()

	lines := p.SplitLines("TOPIC: A\r\nQUESTION: B?\nplain")
	expected := []string{"TOPIC: A", "QUESTION: B?", "plain"}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("Expected %v, got %v", expected, lines)
	}
}
