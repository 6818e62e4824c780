package utils

import (
	"strings"
	"testing"
)

func TestDocumentIDStable(t *testing.T) {
	a := DocumentID("report.pdf", []byte("content"))
	b := DocumentID("report.pdf", []byte("content"))
	if a != b {
		t.Fatalf("same input produced different IDs: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "report_") {
		t.Errorf("ID %q does not start with filename stem", a)
	}
	if len(a) != len("report_")+8 {
		t.Errorf("ID %q digest is not 8 hex chars", a)
	}
}

func TestDocumentIDVariesWithContent(t *testing.T) {
	a := DocumentID("report.pdf", []byte("one"))
	b := DocumentID("report.pdf", []byte("two"))
	if a == b {
		t.Fatal("different content produced identical IDs")
	}
}

func TestDocumentIDStripsPathAndExtension(t *testing.T) {
	id := DocumentID("/tmp/uploads/annual report.PDF", []byte("x"))
	if strings.Contains(id, "/") {
		t.Errorf("ID %q contains path separator", id)
	}
	if strings.Contains(strings.ToLower(id), ".pdf") {
		t.Errorf("ID %q retains extension", id)
	}
	if strings.Contains(id, " ") {
		t.Errorf("ID %q contains unsafe characters", id)
	}
}

func TestDocumentIDEmptyStem(t *testing.T) {
	id := DocumentID(".pdf", []byte("x"))
	if !strings.HasPrefix(id, "document_") {
		t.Errorf("empty stem ID = %q, want document_ prefix", id)
	}
}
