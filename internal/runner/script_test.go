package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagecrit/pagecrit/internal/models"
)

func TestPersonaScript(t *testing.T) {
	script, err := PersonaScript(ScriptConfig{
		URL: "https://example.com",
		Personas: []models.Persona{
			{Name: "Casual Gamer", Perspective: "entertainment", Focus: []string{"gameplay"}},
		},
		Options: DefaultOptions(),
	})
	require.NoError(t, err)

	require.Contains(t, script, "import { experiencePageWithPersonas } from 'ai-browser-test';")
	require.Contains(t, script, "import { chromium } from 'playwright';")
	require.Contains(t, script, `await page.goto("https://example.com");`)
	require.Contains(t, script, `"name": "Casual Gamer"`)
	require.Contains(t, script, "viewport: { width: 1280, height: 720 }")
	require.Contains(t, script, `device: "desktop"`)
	require.Contains(t, script, "captureScreenshots: true")
	require.Contains(t, script, "console.log(JSON.stringify(results, null, 2));")
	require.Contains(t, script, "process.exit(1);")
}

func TestPersonaScript_QuotesHostileURL(t *testing.T) {
	script, err := PersonaScript(ScriptConfig{
		URL:      `https://example.com/?q="quoted"`,
		Personas: []models.Persona{{Name: "A"}},
		Options:  DefaultOptions(),
	})
	require.NoError(t, err)
	require.Contains(t, script, `await page.goto("https://example.com/?q=\"quoted\"");`)
}

func TestPersonaScript_Validation(t *testing.T) {
	_, err := PersonaScript(ScriptConfig{URL: "https://example.com"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no personas")

	_, err = PersonaScript(ScriptConfig{Personas: []models.Persona{{Name: "A"}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing URL")
}

func TestMultiModalScript(t *testing.T) {
	opts := DefaultOptions()
	opts.FPS = 4
	script, err := MultiModalScript(ScriptConfig{
		URL:      "https://example.com",
		TestName: "homepage-test",
		Options:  opts,
	})
	require.NoError(t, err)

	require.Contains(t, script, "import { multiModalValidation, validateScreenshot } from 'ai-browser-test';")
	require.Contains(t, script, "validateScreenshot,")
	require.Contains(t, script, `"homepage-test",`)
	require.Contains(t, script, "fps: 4,")
	require.Contains(t, script, "duration: 2000,")
	require.Contains(t, script, "multiPerspective: true")
}

func TestMultiModalScript_DefaultTestName(t *testing.T) {
	script, err := MultiModalScript(ScriptConfig{URL: "https://example.com", Options: DefaultOptions()})
	require.NoError(t, err)
	require.Contains(t, script, `"page-validation"`)
}

func TestScriptsHaveNoTemplateResidue(t *testing.T) {
	persona, err := PersonaScript(ScriptConfig{
		URL:      "https://example.com",
		Personas: []models.Persona{{Name: "A"}},
		Options:  DefaultOptions(),
	})
	require.NoError(t, err)
	multi, err := MultiModalScript(ScriptConfig{URL: "https://example.com", Options: DefaultOptions()})
	require.NoError(t, err)

	for _, script := range []string{persona, multi} {
		require.False(t, strings.Contains(script, "{{"), "unrendered template action in script")
	}
}
