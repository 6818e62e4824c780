package prompt

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"aethon-assistant/internal/logger"
)

// DefaultTestName is the built-in personality A/B test
const DefaultTestName = "aethon-personality"

// ABTestConfig describes one A/B test: the candidate variant labels and
// the traffic share each receives. Weights must sum to 1.
type ABTestConfig struct {
	Enabled     bool      `json:"enabled"`
	Variants    []string  `json:"variants"`
	Weights     []float64 `json:"weights"`
	Description string    `json:"description,omitempty"`
}

func (c ABTestConfig) validate() error {
	if len(c.Variants) != len(c.Weights) {
		return fmt.Errorf("number of variants must match number of weights")
	}
	sum := 0.0
	for _, w := range c.Weights {
		sum += w
	}
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("weights must sum to 1.0, got %f", sum)
	}
	return nil
}

// ABTestManager selects prompt variants by weighted random choice between
// labeled versions. A disabled or unknown test routes all traffic to the
// production label; a missing variant label falls back to production and
// then to the built-in prompt, so chat never fails on prompt lookup.
type ABTestManager struct {
	mu      sync.RWMutex
	prompts *Manager
	rand    *rand.Rand
	tests   map[string]ABTestConfig
}

func NewABTestManager(prompts *Manager, enabled bool, split float64, seed int64) *ABTestManager {
	m := &ABTestManager{
		prompts: prompts,
		rand:    rand.New(rand.NewSource(seed)),
		tests:   make(map[string]ABTestConfig),
	}

	// Default personality test, e.g. a 90/10 prod-a/prod-b split
	m.tests[DefaultTestName] = ABTestConfig{
		Enabled:     enabled,
		Variants:    []string{"prod-a", "prod-b"},
		Weights:     []float64{1.0 - split, split},
		Description: "Aethon personality A/B test",
	}

	return m
}

// GetPromptVariant resolves the prompt to use for one chat turn and the
// label that selected it.
func (m *ABTestManager) GetPromptVariant(promptName, testName string) (*Prompt, string) {
	label := m.selectVariant(testName)

	p, err := m.prompts.Get(promptName, label)
	if err == nil {
		return p, label
	}
	logger.Warn("Prompt variant lookup failed, falling back to production", "prompt", promptName, "label", label, "error", err)

	p, err = m.prompts.Get(promptName, LabelProduction)
	if err == nil {
		return p, LabelProduction
	}

	// Last resort: the compiled-in prompt
	return &Prompt{
		Name:    promptName,
		Version: 1,
		Labels:  []string{"local-fallback"},
		Content: AethonSystemPrompt,
		Config:  ModelConfig{Model: "gemini-2.0-flash", Temperature: 0.7, MaxTokens: 1000},
	}, "local-fallback"
}

func (m *ABTestManager) selectVariant(testName string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	test, ok := m.tests[testName]
	if !ok || !test.Enabled {
		return LabelProduction
	}

	r := m.rand.Float64()
	acc := 0.0
	for i, w := range test.Weights {
		acc += w
		if r < acc {
			return test.Variants[i]
		}
	}
	return test.Variants[len(test.Variants)-1]
}

// Status reports the configuration of one test, or all tests when
// testName is empty.
func (m *ABTestManager) Status(testName string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if testName != "" {
		test, ok := m.tests[testName]
		if !ok {
			return nil, fmt.Errorf("test %q not found", testName)
		}
		return map[string]any{
			"test_name":   testName,
			"enabled":     test.Enabled,
			"variants":    test.Variants,
			"weights":     test.Weights,
			"description": test.Description,
		}, nil
	}

	tests := make(map[string]ABTestConfig, len(m.tests))
	for name, test := range m.tests {
		tests[name] = test
	}
	return map[string]any{
		"method": "weighted random selection between labeled prompt variants",
		"tests":  tests,
	}, nil
}

// Toggle enables or disables a test
func (m *ABTestManager) Toggle(testName string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	test, ok := m.tests[testName]
	if !ok {
		return fmt.Errorf("test %q not found", testName)
	}
	test.Enabled = enabled
	m.tests[testName] = test

	logger.Info("A/B test toggled", "test", testName, "enabled", enabled)
	return nil
}

// AddTest registers a new A/B test after validating its weights
func (m *ABTestManager) AddTest(testName string, config ABTestConfig) error {
	if err := config.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[testName] = config
	return nil
}
