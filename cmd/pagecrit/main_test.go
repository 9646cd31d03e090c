package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationFailureErrorIsDistinguishable(t *testing.T) {
	var err error = fmt.Errorf("wrapped: %w", &ValidationFailureError{Message: "bad payload"})

	var validationErr *ValidationFailureError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, "bad payload", validationErr.Message)

	var plain error = fmt.Errorf("disk full")
	require.False(t, errors.As(plain, &validationErr))
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand()

	expected := []string{"report", "run", "script", "personas", "check", "init"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		require.True(t, found, "missing subcommand %q", name)
	}
}

func TestPersonasCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"personas"})
	require.NoError(t, cmd.Execute())

	require.Contains(t, out.String(), "Casual Gamer")
	require.Contains(t, out.String(), "Perspective: accessibility")
	require.Contains(t, out.String(), "responsive-design")
}

func TestCheckCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, envVar := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(envVar, "")
	}

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"check"})
	require.NoError(t, cmd.Execute())

	require.Contains(t, out.String(), "Target URL")
	require.Contains(t, out.String(), "https://example.com")
	require.Contains(t, out.String(), "none configured")
	require.Contains(t, out.String(), "Personas")
}

func TestInitCommand_NonInteractiveWritesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	// stdin is not a terminal under go test, so the form is skipped
	require.NoError(t, runCLI(t, "init"))

	data, err := os.ReadFile(".pagecrit.yaml")
	require.NoError(t, err)
	require.Contains(t, string(data), "url: https://example.com")
	require.Contains(t, string(data), "node: node")

	// refuses to clobber without --force
	require.Error(t, runCLI(t, "init"))
	require.NoError(t, runCLI(t, "init", "--force"))
}
