package e2e_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/yaml2json/internal/converter"
)

// TestEndToEnd_ComplexDocument converts a realistic configuration file that
// uses anchors, merge keys, block scalars and YAML 1.1 booleans.
func TestEndToEnd_ComplexDocument(t *testing.T) {
	tempDir := t.TempDir()

	yamlContent := `# deployment description
defaults: &defaults
  timeout_seconds: 30
  retry_count: 3
  debug: off

environments:
  development:
    <<: *defaults
    debug: on
    log_level: debug
  production:
    <<: *defaults
    replicas: 5

features: [logging, metrics, alerting]
rate_limits: {per_second: 100, per_minute: 1000, burst: 150}
success_rate: 0.9999
response_times:
  - 0.045
  - 0.067
motd: |
  Welcome.
  Be nice.
summary: >
  folded
  text
quoted: "yes"
updated_at: null
`
	yamlFile := filepath.Join(tempDir, "complex.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(yamlContent), 0o644))

	result, err := converter.New().Convert(yamlFile, "")
	require.NoError(t, err)

	generated, err := os.ReadFile(result.Output)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(generated, &decoded))

	envs := decoded["environments"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"timeout_seconds": float64(30),
		"retry_count":     float64(3),
		"debug":           true,
		"log_level":       "debug",
	}, envs["development"])
	assert.Equal(t, map[string]interface{}{
		"timeout_seconds": float64(30),
		"retry_count":     float64(3),
		"debug":           false,
		"replicas":        float64(5),
	}, envs["production"])

	assert.Equal(t, []interface{}{"logging", "metrics", "alerting"}, decoded["features"])
	assert.Equal(t, 0.9999, decoded["success_rate"])
	assert.Equal(t, "Welcome.\nBe nice.\n", decoded["motd"])
	assert.Equal(t, "folded text\n", decoded["summary"])
	assert.Equal(t, "yes", decoded["quoted"])
	assert.Nil(t, decoded["updated_at"])

	// Keys appear in document order.
	text := string(generated)
	order := []string{`"defaults"`, `"environments"`, `"features"`, `"rate_limits"`, `"success_rate"`, `"response_times"`, `"motd"`, `"summary"`, `"quoted"`, `"updated_at"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.NotEqual(t, -1, idx, "missing key %s", key)
		assert.Greater(t, idx, last, "key %s is out of order", key)
		last = idx
	}
}

// TestEndToEnd_Indentation checks that every nesting level adds four spaces.
func TestEndToEnd_Indentation(t *testing.T) {
	tempDir := t.TempDir()
	yamlFile := filepath.Join(tempDir, "deep.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("a:\n  b:\n    c:\n      - d: 1\n"), 0o644))

	result, err := converter.New().Convert(yamlFile, "")
	require.NoError(t, err)

	generated, err := os.ReadFile(result.Output)
	require.NoError(t, err)

	for _, line := range strings.Split(string(generated), "\n") {
		indent := len(line) - len(strings.TrimLeft(line, " "))
		assert.Zero(t, indent%4, "line %q is not indented by a multiple of four", line)
		assert.NotContains(t, line, "\t")
	}
	assert.Contains(t, string(generated), "\n                    \"d\": 1\n")
}

// TestEndToEnd_EdgeCases covers inputs at the boundaries of the data model.
func TestEndToEnd_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "empty file", input: "", expected: "null"},
		{name: "scalar root", input: "hello\n", expected: `"hello"`},
		{name: "empty mapping", input: "{}\n", expected: "{}"},
		{name: "empty sequence", input: "[]\n", expected: "[]"},
		{name: "integer keys", input: "1: a\n2: b\n", expected: "{\n    \"1\": \"a\",\n    \"2\": \"b\"\n}"},
		{name: "huge integer", input: "n: 123456789012345678901234567890\n", expected: "{\n    \"n\": 123456789012345678901234567890\n}"},
		{name: "float formatting", input: "f: 2.50\n", expected: "{\n    \"f\": 2.5\n}"},
		{name: "unicode", input: "greeting: héllo wörld\n", expected: "{\n    \"greeting\": \"héllo wörld\"\n}"},
		{name: "complex key", input: "? {a: 1}\n: x\n", wantErr: true},
		{name: "infinity", input: "x: -.inf\n", wantErr: true},
		{name: "unclosed", input: "key: [unclosed\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			yamlFile := filepath.Join(tempDir, "edge.yaml")
			require.NoError(t, os.WriteFile(yamlFile, []byte(tt.input), 0o644))

			result, err := converter.New().Convert(yamlFile, "")
			if tt.wantErr {
				require.Error(t, err)
				_, statErr := os.Stat(filepath.Join(tempDir, "edge.json"))
				assert.True(t, os.IsNotExist(statErr))
				return
			}
			require.NoError(t, err)

			generated, err := os.ReadFile(result.Output)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(generated))
		})
	}
}
