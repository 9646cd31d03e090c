// Package runner generates and optionally executes the node scripts that
// drive the external browser-validation runtime. pagecrit never controls
// the browser itself: it hands the runtime a script and ingests the JSON
// the runtime prints.
package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/pagecrit/pagecrit/internal/models"
)

// ScriptConfig holds everything a generated runner script embeds.
type ScriptConfig struct {
	URL      string
	TestName string
	Personas []models.Persona
	Options  Options
}

const personaScriptTemplate = `import { experiencePageWithPersonas } from 'ai-browser-test';
import { chromium } from 'playwright';

async function run() {
    const browser = await chromium.launch();
    const page = await browser.newPage();

    try {
        await page.goto({{.URL}});

        const personas = {{.Personas}};

        const results = await experiencePageWithPersonas(
            page,
            personas,
            {
                viewport: { width: {{.Options.ViewportWidth}}, height: {{.Options.ViewportHeight}} },
                device: {{.Device}},
                captureScreenshots: {{.Options.CaptureScreenshots}},
                captureState: {{.Options.CaptureState}},
                captureCode: {{.Options.CaptureCode}}
            }
        );

        console.log(JSON.stringify(results, null, 2));
    } catch (error) {
        console.error(JSON.stringify({ error: error.message, stack: error.stack }));
        process.exit(1);
    } finally {
        await browser.close();
    }
}

run();
`

const multiModalScriptTemplate = `import { multiModalValidation, validateScreenshot } from 'ai-browser-test';
import { chromium } from 'playwright';

async function run() {
    const browser = await chromium.launch();
    const page = await browser.newPage();

    try {
        await page.goto({{.URL}});

        const result = await multiModalValidation(
            validateScreenshot,
            page,
            {{.TestName}},
            {
                fps: {{.Options.FPS}},
                duration: {{.Options.DurationMs}},
                captureCode: {{.Options.CaptureCode}},
                captureState: {{.Options.CaptureState}},
                multiPerspective: {{.Options.MultiPerspective}}
            }
        );

        console.log(JSON.stringify(result, null, 2));
    } catch (error) {
        console.error(JSON.stringify({ error: error.message, stack: error.stack }));
        process.exit(1);
    } finally {
        await browser.close();
    }
}

run();
`

var (
	personaTmpl    = template.Must(template.New("persona").Parse(personaScriptTemplate))
	multiModalTmpl = template.Must(template.New("multimodal").Parse(multiModalScriptTemplate))
)

// scriptData carries pre-encoded JS literals into the templates. Encoding
// through json.Marshal keeps URLs and names safely quoted.
type scriptData struct {
	URL      string
	TestName string
	Personas string
	Device   string
	Options  Options
}

func buildScriptData(cfg ScriptConfig) (scriptData, error) {
	if cfg.URL == "" {
		return scriptData{}, fmt.Errorf("script config: missing URL")
	}

	urlJS, err := json.Marshal(cfg.URL)
	if err != nil {
		return scriptData{}, fmt.Errorf("encoding URL: %w", err)
	}

	testName := cfg.TestName
	if testName == "" {
		testName = "page-validation"
	}
	nameJS, err := json.Marshal(testName)
	if err != nil {
		return scriptData{}, fmt.Errorf("encoding test name: %w", err)
	}

	personasJS, err := json.MarshalIndent(cfg.Personas, "        ", "    ")
	if err != nil {
		return scriptData{}, fmt.Errorf("encoding personas: %w", err)
	}

	deviceJS, err := json.Marshal(cfg.Options.Device)
	if err != nil {
		return scriptData{}, fmt.Errorf("encoding device: %w", err)
	}

	return scriptData{
		URL:      string(urlJS),
		TestName: string(nameJS),
		Personas: string(personasJS),
		Device:   string(deviceJS),
		Options:  cfg.Options,
	}, nil
}

// PersonaScript renders the node script that experiences a page with the
// configured personas and prints PersonaExperienceResult[] to stdout.
func PersonaScript(cfg ScriptConfig) (string, error) {
	if len(cfg.Personas) == 0 {
		return "", fmt.Errorf("script config: no personas")
	}
	data, err := buildScriptData(cfg)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := personaTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering persona script: %w", err)
	}
	return buf.String(), nil
}

// MultiModalScript renders the node script that runs a combined visual and
// code validation and prints a MultiModalValidationResult to stdout.
func MultiModalScript(cfg ScriptConfig) (string, error) {
	data, err := buildScriptData(cfg)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := multiModalTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering multi-modal script: %w", err)
	}
	return buf.String(), nil
}
