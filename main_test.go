package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/yaml2json/internal/config"
	"github.com/mcncl/yaml2json/internal/errors"
)

func TestRun_SimpleYAML(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	input := filepath.Join(dir, "sample.yaml")
	require.NoError(t, os.WriteFile(input, []byte("name: widget\ncount: 3\ntags: [a, b]\n"), 0o644))

	CLI.Input = input
	CLI.Output = ""

	var stdout bytes.Buffer
	err := run(&Context{Config: config.NewConfig(), Stdout: &stdout})
	require.NoError(t, err)

	output := filepath.Join(dir, "sample.json")
	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"name\": \"widget\",\n    \"count\": 3,\n    \"tags\": [\n        \"a\",\n        \"b\"\n    ]\n}", string(content))

	assert.Equal(t, "Successfully converted "+input+" to "+output+"\n", stdout.String())
}

func TestRun_WithOutputFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	input := filepath.Join(dir, "user.yml")
	require.NoError(t, os.WriteFile(input, []byte("id: 1\nemail: test@example.com\n"), 0o644))
	output := filepath.Join(dir, "out", "user-data.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(output), 0o755))

	CLI.Input = input
	CLI.Output = output

	var stdout bytes.Buffer
	err := run(&Context{Config: config.NewConfig(), Stdout: &stdout})
	require.NoError(t, err)

	outputContent, err := os.ReadFile(output)
	require.NoError(t, err)
	outputStr := string(outputContent)
	assert.Contains(t, outputStr, `"id": 1`)
	assert.Contains(t, outputStr, `"email": "test@example.com"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stdout.String()), output))
}

func TestRun_UsesConfig(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	input := filepath.Join(dir, "flags.yaml")
	require.NoError(t, os.WriteFile(input, []byte("enabled: on\n"), 0o644))

	CLI.Input = input
	CLI.Output = ""

	cfg := config.NewConfig()
	cfg.Indent = 0
	cfg.Scalars = "yaml12"

	err := run(&Context{Config: cfg, Stdout: &bytes.Buffer{}})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "flags.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"enabled":"on"}`, string(content))
}

func TestRun_InvalidYAML(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	input := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(input, []byte("key: [unclosed\n"), 0o644))

	CLI.Input = input
	CLI.Output = ""

	var stdout bytes.Buffer
	err := run(&Context{Config: config.NewConfig(), Stdout: &stdout})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
	assert.Contains(t, errors.UserFriendlyError(err), "YAML decode error")
	assert.Empty(t, stdout.String())

	_, statErr := os.Stat(filepath.Join(dir, "bad.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_MissingInput(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = filepath.Join(t.TempDir(), "missing.yaml")
	CLI.Output = ""

	err := run(&Context{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
	assert.Contains(t, errors.UserFriendlyError(err), "Input error")
}
