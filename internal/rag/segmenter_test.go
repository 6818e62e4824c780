package rag

import (
	"errors"
	"strings"
	"testing"
)

func TestSegmentOverlappingWindows(t *testing.T) {
	chunks, err := Segment("ABCDEFGHIJ", 4, 1)
	if err != nil {
		t.Fatalf("segment error: %v", err)
	}

	wantTexts := []string{"ABCD", "DEFG", "GHIJ"}
	if len(chunks) != len(wantTexts) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(wantTexts))
	}
	wantOffsets := [][2]int{{0, 4}, {3, 7}, {6, 10}}
	for i, c := range chunks {
		if c.Text != wantTexts[i] {
			t.Errorf("chunk %d text = %q, want %q", i, c.Text, wantTexts[i])
		}
		if c.StartIndex != wantOffsets[i][0] || c.EndIndex != wantOffsets[i][1] {
			t.Errorf("chunk %d offsets = (%d,%d), want (%d,%d)",
				i, c.StartIndex, c.EndIndex, wantOffsets[i][0], wantOffsets[i][1])
		}
		if c.Order != i {
			t.Errorf("chunk %d order = %d", i, c.Order)
		}
		if c.CharCount != c.EndIndex-c.StartIndex {
			t.Errorf("chunk %d char count = %d", i, c.CharCount)
		}
	}
}

func TestSegmentEmptyText(t *testing.T) {
	chunks, err := Segment("", 500, 50)
	if err != nil {
		t.Fatalf("segment error: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("got %d chunks for empty text", len(chunks))
	}
}

func TestSegmentShortText(t *testing.T) {
	chunks, err := Segment("hello", 500, 50)
	if err != nil {
		t.Fatalf("segment error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != "hello" {
		t.Errorf("chunk text = %q", chunks[0].Text)
	}
}

func TestSegmentMultiByteRunes(t *testing.T) {
	text := "héllo wörld, ünïcode"
	chunks, err := Segment(text, 7, 2)
	if err != nil {
		t.Fatalf("segment error: %v", err)
	}
	runes := []rune(text)
	for i, c := range chunks {
		if got := string(runes[c.StartIndex:c.EndIndex]); got != c.Text {
			t.Errorf("chunk %d: offsets do not address its text: %q vs %q", i, got, c.Text)
		}
	}
}

func TestSegmentCoversWholeText(t *testing.T) {
	text := strings.Repeat("abcdefghij", 137)
	chunks, err := Segment(text, 500, 50)
	if err != nil {
		t.Fatalf("segment error: %v", err)
	}
	if chunks[0].StartIndex != 0 {
		t.Errorf("first chunk starts at %d", chunks[0].StartIndex)
	}
	if last := chunks[len(chunks)-1]; last.EndIndex != len([]rune(text)) {
		t.Errorf("last chunk ends at %d, want %d", last.EndIndex, len([]rune(text)))
	}
	// Each chunk must start no later than the previous one ended
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartIndex > chunks[i-1].EndIndex {
			t.Errorf("gap between chunk %d and %d", i-1, i)
		}
	}
}

func TestSegmentInvalidConfiguration(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -1, 0},
		{"negative overlap", 10, -1},
		{"overlap equals chunk size", 10, 10},
		{"overlap exceeds chunk size", 10, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Segment("some text", tc.chunkSize, tc.overlap)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("got %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}
