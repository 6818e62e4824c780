// Package prompt manages versioned, labeled system prompt variants and
// the A/B tests that split chat traffic between them.
package prompt

import (
	"fmt"
	"sync"
)

const (
	// PromptName identifies the assistant's system prompt family
	PromptName = "aethon-system-prompt"

	// LabelProduction is the default variant label
	LabelProduction = "production"
)

// ModelConfig is the generation configuration attached to a prompt
// version, consumed by the chat path.
type ModelConfig struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int32   `json:"max_tokens"`
}

// Prompt is one immutable version of a named system prompt. Labels route
// traffic to it: "production" for the default, "prod-a"/"prod-b" for A/B
// variants.
type Prompt struct {
	Name    string      `json:"name"`
	Version int         `json:"version"`
	Labels  []string    `json:"labels"`
	Content string      `json:"-"`
	Config  ModelConfig `json:"config"`
}

// Compile returns the prompt text to send as the system instruction
func (p *Prompt) Compile() string {
	return p.Content
}

// Manager is an in-process registry of prompt versions, looked up by
// label the way the hosted prompt service resolves labeled variants.
type Manager struct {
	mu       sync.RWMutex
	versions map[string][]*Prompt // name -> versions, ascending
}

// NewManager seeds the registry with the built-in Aethon versions:
// v1 production (base), v2 prod-a (balanced), v3 prod-b (adaptive).
func NewManager(defaultModel string) *Manager {
	m := &Manager{versions: make(map[string][]*Prompt)}

	m.Register(&Prompt{
		Name:    PromptName,
		Labels:  []string{LabelProduction},
		Content: AethonSystemPrompt,
		Config:  ModelConfig{Model: defaultModel, Temperature: 0.7, MaxTokens: 1000},
	})
	m.Register(&Prompt{
		Name:    PromptName,
		Labels:  []string{"prod-a", "balanced"},
		Content: AethonSystemPrompt + balancedSuffix,
		Config:  ModelConfig{Model: defaultModel, Temperature: 0.6, MaxTokens: 800},
	})
	m.Register(&Prompt{
		Name:    PromptName,
		Labels:  []string{"prod-b", "adaptive"},
		Content: AethonSystemPrompt + adaptiveSuffix,
		Config:  ModelConfig{Model: defaultModel, Temperature: 0.8, MaxTokens: 1200},
	})

	return m
}

// Register appends p as the next version of its prompt name
func (m *Manager) Register(p *Prompt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Version = len(m.versions[p.Name]) + 1
	m.versions[p.Name] = append(m.versions[p.Name], p)
}

// Get returns the newest version of name carrying label
func (m *Manager) Get(name, label string) (*Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.versions[name]
	for i := len(versions) - 1; i >= 0; i-- {
		for _, l := range versions[i].Labels {
			if l == label {
				return versions[i], nil
			}
		}
	}
	return nil, fmt.Errorf("prompt %q has no version labeled %q", name, label)
}

// GetVersion returns a specific version of name
func (m *Manager) GetVersion(name string, version int) (*Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.versions[name]
	if version < 1 || version > len(versions) {
		return nil, fmt.Errorf("prompt %q has no version %d", name, version)
	}
	return versions[version-1], nil
}

// Versions lists all registered versions of name, oldest first
func (m *Manager) Versions(name string) []*Prompt {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Prompt, len(m.versions[name]))
	copy(out, m.versions[name])
	return out
}
