package services

import (
	"regexp"
	"sort"
	"strings"

	"aethon-assistant/models"
)

// Pattern-based named entity extraction over the uploaded document.
// A lightweight stand-in for a full NLP pipeline: good enough to surface
// the people and organizations a document is about.

var entityPatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"PERSON", regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Prof)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)},
	{"ORG", regexp.MustCompile(`\b[A-Z][A-Za-z&\s]+\s(?:Inc|Corp|Corporation|LLC|Ltd|Limited|Company|Group|Therapeutics|Pharmaceuticals|Foundation|Institute|University|Hospital|Bank)\.?\b`)},
	{"ORG", regexp.MustCompile(`\b(?:FDA|EPA|FBI|CIA|NASA|WHO|UN|EU|NATO|NASDAQ|NYSE|SEC)\b`)},
	{"PERSON", regexp.MustCompile(`\b[A-Z][a-z]+\s+(?:[A-Z]\.\s+)?[A-Z][a-z-]+\b`)},
}

var entitySkipWords = map[string]bool{
	"the": true, "this": true, "that": true, "these": true, "those": true,
	"page": true, "content": true, "summary": true, "overview": true,
	"research": true, "division": true, "analyst": true, "operator": true,
	"president": true, "director": true, "manager": true, "executive": true,
	"chief": true, "officer": true, "head": true, "senior": true,
}

// ExtractEntities returns the topK most frequent named entities in text.
// Overlapping matches keep the earliest, longest span; low-signal single
// word matches and bare company suffixes are filtered out.
func ExtractEntities(text string, topK int) []models.Entity {
	type match struct {
		start, end int
		text       string
		label      string
	}

	var matches []match
	for _, p := range entityPatterns {
		for _, loc := range p.pattern.FindAllStringIndex(text, -1) {
			matches = append(matches, match{
				start: loc[0],
				end:   loc[1],
				text:  strings.TrimSpace(text[loc[0]:loc[1]]),
				label: p.label,
			})
		}
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].start != matches[b].start {
			return matches[a].start < matches[b].start
		}
		return matches[a].end-matches[a].start > matches[b].end-matches[b].start
	})

	counts := make(map[string]int)
	labels := make(map[string]string)
	lastEnd := -1

	for _, m := range matches {
		if m.start < lastEnd {
			continue
		}
		if !keepEntity(m.text) {
			continue
		}
		lastEnd = m.end
		counts[m.text]++
		labels[m.text] = m.label
	}

	// Single-word person names are noise unless they recur heavily
	names := make([]string, 0, len(counts))
	for name, count := range counts {
		if labels[name] == "PERSON" && len(strings.Fields(name)) == 1 && count < 5 {
			continue
		}
		names = append(names, name)
	}

	sort.Slice(names, func(a, b int) bool {
		if counts[names[a]] != counts[names[b]] {
			return counts[names[a]] > counts[names[b]]
		}
		return names[a] < names[b]
	})

	if topK > len(names) {
		topK = len(names)
	}
	entities := make([]models.Entity, 0, topK)
	for _, name := range names[:topK] {
		entities = append(entities, models.Entity{
			Text:  name,
			Label: labels[name],
			Count: counts[name],
		})
	}
	return entities
}

func keepEntity(text string) bool {
	if len(text) <= 2 {
		return false
	}
	lower := strings.ToLower(text)
	if entitySkipWords[lower] {
		return false
	}
	switch strings.ToUpper(text) {
	case "LLC", "INC", "CORP", "LTD", "CO":
		return false
	}
	for _, word := range strings.Fields(lower) {
		if entitySkipWords[word] && len(strings.Fields(lower)) == 1 {
			return false
		}
	}
	// PDF ligature artifacts mark truncated extractions
	if strings.ContainsAny(text, "ﬀﬁﬂ") {
		return false
	}
	return true
}
