package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScriptCommand_Persona(t *testing.T) {
	t.Chdir(t.TempDir())
	out := filepath.Join(t.TempDir(), "validate.mjs")

	require.NoError(t, runCLI(t, "script", "--kind", "persona", "--url", "https://example.com", "--output", out))

	script, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(script), "experiencePageWithPersonas")
	require.Contains(t, string(script), `"Casual Gamer"`)
	require.Contains(t, string(script), `await page.goto("https://example.com");`)
}

func TestScriptCommand_MultiModal(t *testing.T) {
	t.Chdir(t.TempDir())
	out := filepath.Join(t.TempDir(), "validate.mjs")

	require.NoError(t, runCLI(t, "script", "--kind", "multimodal", "--url", "https://example.com",
		"--test-name", "homepage-test", "--output", out))

	script, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(script), "multiModalValidation")
	require.Contains(t, string(script), `"homepage-test"`)
}

func TestScriptCommand_ConfigURLDefault(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".pagecrit.yaml", []byte("url: https://configured.example.com\n"), 0o644))
	out := filepath.Join(t.TempDir(), "validate.mjs")

	require.NoError(t, runCLI(t, "script", "--output", out))

	script, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(script), "https://configured.example.com")
}

func TestScriptCommand_RunnerOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	content := `runner:
  options:
    viewport_width: 1366
    capture_state: false
`
	require.NoError(t, os.WriteFile(".pagecrit.yaml", []byte(content), 0o644))
	out := filepath.Join(t.TempDir(), "validate.mjs")

	require.NoError(t, runCLI(t, "script", "--url", "https://example.com", "--output", out,
		"--option", "viewport_width=1440"))

	script, err := os.ReadFile(out)
	require.NoError(t, err)
	// --option beats the config file, the config file beats defaults
	require.Contains(t, string(script), "width: 1440")
	require.Contains(t, string(script), "captureState: false")
	require.Contains(t, string(script), "height: 720")
}

func TestScriptCommand_UnknownOptionKey(t *testing.T) {
	t.Chdir(t.TempDir())
	err := runCLI(t, "script", "--url", "https://example.com", "--option", "viewportwidth=1440")
	require.Error(t, err)
	require.Contains(t, err.Error(), "viewportwidth")
}

func TestScriptCommand_BadKind(t *testing.T) {
	t.Chdir(t.TempDir())
	err := runCLI(t, "script", "--kind", "python")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported kind")
}
