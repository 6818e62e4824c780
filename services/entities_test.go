package services

import (
	"strings"
	"testing"
)

func TestExtractEntitiesFindsOrgsAndPeople(t *testing.T) {
	text := strings.Repeat(
		"Dr. Jane Smith presented the results for Acme Therapeutics Inc. "+
			"The FDA reviewed the filing. ", 3)

	entities := ExtractEntities(text, 5)
	if len(entities) == 0 {
		t.Fatal("no entities extracted")
	}

	found := map[string]string{}
	for _, e := range entities {
		found[e.Text] = e.Label
		if e.Count < 1 {
			t.Errorf("entity %q has count %d", e.Text, e.Count)
		}
	}

	if label, ok := found["FDA"]; !ok || label != "ORG" {
		t.Errorf("FDA not extracted as ORG: %v", found)
	}

	var sawPerson bool
	for text, label := range found {
		if label == "PERSON" && strings.Contains(text, "Jane Smith") {
			sawPerson = true
		}
	}
	if !sawPerson {
		t.Errorf("Jane Smith not extracted: %v", found)
	}
}

func TestExtractEntitiesSortedByFrequency(t *testing.T) {
	text := strings.Repeat("The FDA approved it. ", 10) +
		strings.Repeat("NASA launched it. ", 3)

	entities := ExtractEntities(text, 5)
	if len(entities) < 2 {
		t.Fatalf("got %d entities", len(entities))
	}
	if entities[0].Text != "FDA" {
		t.Errorf("most frequent entity = %q, want FDA", entities[0].Text)
	}
	for i := 1; i < len(entities); i++ {
		if entities[i].Count > entities[i-1].Count {
			t.Errorf("entities not sorted by count: %v", entities)
		}
	}
}

func TestExtractEntitiesTopKLimit(t *testing.T) {
	text := "The FDA and NASA and the WHO and the SEC and NATO met with the EU and the UN."
	entities := ExtractEntities(text, 3)
	if len(entities) > 3 {
		t.Fatalf("got %d entities, want at most 3", len(entities))
	}
}

func TestExtractEntitiesFiltersNoise(t *testing.T) {
	// Bare suffix and skip words must not surface as entities
	text := "LLC was mentioned. The Manager spoke. Research continued."
	entities := ExtractEntities(text, 10)
	for _, e := range entities {
		switch strings.ToUpper(e.Text) {
		case "LLC", "MANAGER", "RESEARCH":
			t.Errorf("noise entity surfaced: %q", e.Text)
		}
	}
}

func TestExtractEntitiesEmptyText(t *testing.T) {
	if entities := ExtractEntities("", 5); len(entities) != 0 {
		t.Fatalf("got %d entities from empty text", len(entities))
	}
}
