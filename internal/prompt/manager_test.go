package prompt

import (
	"strings"
	"testing"
)

func TestManagerSeedsThreeVersions(t *testing.T) {
	m := NewManager("gemini-2.0-flash")

	versions := m.Versions(PromptName)
	if len(versions) != 3 {
		t.Fatalf("got %d versions, want 3", len(versions))
	}
	for i, v := range versions {
		if v.Version != i+1 {
			t.Errorf("version %d numbered %d", i, v.Version)
		}
	}
}

func TestManagerGetByLabel(t *testing.T) {
	m := NewManager("gemini-2.0-flash")

	cases := []struct {
		label       string
		wantVersion int
		wantTemp    float32
		wantTokens  int32
	}{
		{LabelProduction, 1, 0.7, 1000},
		{"prod-a", 2, 0.6, 800},
		{"balanced", 2, 0.6, 800},
		{"prod-b", 3, 0.8, 1200},
		{"adaptive", 3, 0.8, 1200},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			p, err := m.Get(PromptName, tc.label)
			if err != nil {
				t.Fatalf("get error: %v", err)
			}
			if p.Version != tc.wantVersion {
				t.Errorf("version = %d, want %d", p.Version, tc.wantVersion)
			}
			if p.Config.Temperature != tc.wantTemp {
				t.Errorf("temperature = %f, want %f", p.Config.Temperature, tc.wantTemp)
			}
			if p.Config.MaxTokens != tc.wantTokens {
				t.Errorf("max tokens = %d, want %d", p.Config.MaxTokens, tc.wantTokens)
			}
			if !strings.Contains(p.Compile(), "Aethon") {
				t.Error("compiled prompt does not mention the persona")
			}
		})
	}
}

func TestManagerGetUnknownLabel(t *testing.T) {
	m := NewManager("gemini-2.0-flash")
	if _, err := m.Get(PromptName, "no-such-label"); err == nil {
		t.Fatal("expected error for unknown label")
	}
	if _, err := m.Get("no-such-prompt", LabelProduction); err == nil {
		t.Fatal("expected error for unknown prompt name")
	}
}

func TestManagerRegisterNewerVersionWins(t *testing.T) {
	m := NewManager("gemini-2.0-flash")
	m.Register(&Prompt{
		Name:    PromptName,
		Labels:  []string{LabelProduction},
		Content: AethonSystemPrompt + "\n\nRevised.",
		Config:  ModelConfig{Model: "gemini-2.0-flash", Temperature: 0.5, MaxTokens: 900},
	})

	p, err := m.Get(PromptName, LabelProduction)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if p.Version != 4 {
		t.Errorf("resolved version %d, want the newly registered 4", p.Version)
	}
}

func TestManagerGetVersion(t *testing.T) {
	m := NewManager("gemini-2.0-flash")

	p, err := m.GetVersion(PromptName, 2)
	if err != nil {
		t.Fatalf("get version error: %v", err)
	}
	if p.Version != 2 {
		t.Errorf("got version %d", p.Version)
	}

	if _, err := m.GetVersion(PromptName, 0); err == nil {
		t.Error("expected error for version 0")
	}
	if _, err := m.GetVersion(PromptName, 99); err == nil {
		t.Error("expected error for out-of-range version")
	}
}
