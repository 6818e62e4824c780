package prompt

import (
	"testing"
)

func TestDisabledTestRoutesToProduction(t *testing.T) {
	m := NewABTestManager(NewManager("gemini-2.0-flash"), false, 0.5, 1)

	for i := 0; i < 50; i++ {
		p, label := m.GetPromptVariant(PromptName, DefaultTestName)
		if label != LabelProduction {
			t.Fatalf("disabled test selected %q", label)
		}
		if p.Version != 1 {
			t.Fatalf("disabled test resolved version %d", p.Version)
		}
	}
}

func TestUnknownTestRoutesToProduction(t *testing.T) {
	m := NewABTestManager(NewManager("gemini-2.0-flash"), true, 0.5, 1)
	_, label := m.GetPromptVariant(PromptName, "no-such-test")
	if label != LabelProduction {
		t.Fatalf("unknown test selected %q", label)
	}
}

func TestWeightedSelectionRespectsSplit(t *testing.T) {
	m := NewABTestManager(NewManager("gemini-2.0-flash"), true, 0.1, 42)

	counts := map[string]int{}
	const n = 5000
	for i := 0; i < n; i++ {
		_, label := m.GetPromptVariant(PromptName, DefaultTestName)
		counts[label]++
	}

	if counts["prod-a"]+counts["prod-b"] != n {
		t.Fatalf("unexpected labels selected: %v", counts)
	}
	share := float64(counts["prod-b"]) / n
	if share < 0.05 || share > 0.15 {
		t.Errorf("prod-b share = %f, want about 0.10", share)
	}
}

func TestSelectionFallsBackThroughChain(t *testing.T) {
	m := NewABTestManager(NewManager("gemini-2.0-flash"), true, 0.5, 7)
	if err := m.AddTest("ghost-variant", ABTestConfig{
		Enabled:  true,
		Variants: []string{"does-not-exist"},
		Weights:  []float64{1.0},
	}); err != nil {
		t.Fatalf("add test: %v", err)
	}

	p, label := m.GetPromptVariant(PromptName, "ghost-variant")
	if label != LabelProduction {
		t.Fatalf("missing variant resolved label %q, want production fallback", label)
	}
	if p == nil || p.Compile() == "" {
		t.Fatal("fallback returned no usable prompt")
	}
}

func TestToggle(t *testing.T) {
	m := NewABTestManager(NewManager("gemini-2.0-flash"), false, 0.1, 3)

	if err := m.Toggle(DefaultTestName, true); err != nil {
		t.Fatalf("toggle error: %v", err)
	}
	status, err := m.Status(DefaultTestName)
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if enabled, _ := status["enabled"].(bool); !enabled {
		t.Error("test not enabled after toggle")
	}

	if err := m.Toggle("no-such-test", true); err == nil {
		t.Error("expected error toggling unknown test")
	}
}

func TestAddTestValidatesWeights(t *testing.T) {
	m := NewABTestManager(NewManager("gemini-2.0-flash"), true, 0.1, 3)

	if err := m.AddTest("bad-sum", ABTestConfig{
		Enabled:  true,
		Variants: []string{"a", "b"},
		Weights:  []float64{0.5, 0.2},
	}); err == nil {
		t.Error("expected error for weights not summing to 1")
	}

	if err := m.AddTest("bad-lengths", ABTestConfig{
		Enabled:  true,
		Variants: []string{"a"},
		Weights:  []float64{0.5, 0.5},
	}); err == nil {
		t.Error("expected error for mismatched variants and weights")
	}
}

func TestStatusAllTests(t *testing.T) {
	m := NewABTestManager(NewManager("gemini-2.0-flash"), true, 0.1, 3)
	status, err := m.Status("")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	tests, ok := status["tests"].(map[string]ABTestConfig)
	if !ok {
		t.Fatalf("status has no tests map: %v", status)
	}
	if _, ok := tests[DefaultTestName]; !ok {
		t.Error("default test missing from status")
	}
}
