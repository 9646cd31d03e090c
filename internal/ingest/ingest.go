// Package ingest decodes the JSON payloads emitted by the external
// browser-validation runtime into model types. Payloads are checked against
// embedded JSON Schemas before decoding, and score scales are normalized to
// the canonical 0–10 range exactly once, here. Everything downstream
// (aggregation, reporting) only ever sees normalized models.
package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pagecrit/pagecrit/internal/models"
	"github.com/pagecrit/pagecrit/schemas"
)

// Scale identifies the scoring convention a payload was produced with.
// The runtime's providers are inconsistent: persona experiences historically
// score 0–1 while multi-modal perspectives score 0–10.
type Scale string

const (
	// ScaleAuto infers the scale: when every present score in a payload is
	// <= 1.0 the payload is treated as unit-scale, otherwise as ten-scale.
	ScaleAuto Scale = ""
	// ScaleUnit declares 0–1 scores; they are multiplied by 10 on decode.
	ScaleUnit Scale = "unit"
	// ScaleTen declares canonical 0–10 scores; decode leaves them alone.
	ScaleTen Scale = "ten"
)

// defaultPrinter formats schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

var (
	experienceSchema *jsonschema.Schema
	multiModalSchema *jsonschema.Schema
)

func init() {
	experienceSchema = mustCompileSchema(schemas.ExperienceSchemaJSON, "experience.schema.json")
	multiModalSchema = mustCompileSchema(schemas.MultiModalSchemaJSON, "multimodal.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// SchemaError reports that a payload failed schema validation. Problems
// holds one human-readable message per violation, each prefixed with a JSON
// pointer into the instance.
type SchemaError struct {
	Payload  string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s payload failed schema validation: %s", e.Payload, strings.Join(e.Problems, "; "))
}

// wireEvaluation is the runtime's camelCase evaluation record. It is mapped
// into models.EvaluationResult, which owns the canonical snake_case form.
type wireEvaluation struct {
	Enabled      bool     `json:"enabled"`
	Provider     string   `json:"provider"`
	Score        *float64 `json:"score"`
	Issues       []string `json:"issues"`
	Assessment   string   `json:"assessment"`
	Reasoning    string   `json:"reasoning"`
	ResponseTime float64  `json:"responseTime"`
	Cached       bool     `json:"cached"`
}

func (w *wireEvaluation) toModel() *models.EvaluationResult {
	if w == nil {
		return nil
	}
	issues := w.Issues
	if issues == nil {
		issues = []string{}
	}
	return &models.EvaluationResult{
		Score:        w.Score,
		Issues:       issues,
		Assessment:   w.Assessment,
		Reasoning:    w.Reasoning,
		Provider:     w.Provider,
		ResponseTime: w.ResponseTime,
		Cached:       w.Cached,
	}
}

type wireExperience struct {
	Persona     models.Persona          `json:"persona"`
	Notes       []models.ExperienceNote `json:"notes"`
	Screenshots []models.ScreenshotRef  `json:"screenshots"`
	Rendered    *models.RenderedCode    `json:"renderedCode"`
	GameState   map[string]any          `json:"gameState"`
	Evaluation  *wireEvaluation         `json:"evaluation"`
	Timestamp   int64                   `json:"timestamp"`
}

type wirePerspective struct {
	Persona     string          `json:"persona"`
	Perspective string          `json:"perspective"`
	Focus       string          `json:"focus"`
	Evaluation  *wireEvaluation `json:"evaluation"`
}

type wireMultiModal struct {
	ScreenshotPath      string                 `json:"screenshotPath"`
	Rendered            *models.RenderedCode   `json:"renderedCode"`
	GameState           map[string]any         `json:"gameState"`
	TemporalScreenshots []models.ScreenshotRef `json:"temporalScreenshots"`
	Perspectives        []wirePerspective      `json:"perspectives"`
	CodeValidation      map[string]any         `json:"codeValidation"`
	AggregatedScore     *float64               `json:"aggregatedScore"`
	AggregatedIssues    []string               `json:"aggregatedIssues"`
	Timestamp           int64                  `json:"timestamp"`
}

// DecodeExperiences parses a PersonaExperienceResult[] payload, validating
// it against the embedded schema and normalizing scores to 0–10.
func DecodeExperiences(data []byte, scale Scale) ([]models.PersonaExperience, error) {
	if err := validate(experienceSchema, data, "experience"); err != nil {
		return nil, err
	}

	var wires []wireExperience
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("decoding experience payload: %w", err)
	}

	experiences := make([]models.PersonaExperience, 0, len(wires))
	var scores []*float64
	for _, w := range wires {
		exp := models.PersonaExperience{
			Persona:     w.Persona,
			Notes:       w.Notes,
			Screenshots: w.Screenshots,
			Rendered:    w.Rendered,
			GameState:   w.GameState,
			Evaluation:  w.Evaluation.toModel(),
			Timestamp:   w.Timestamp,
		}
		if exp.Evaluation != nil {
			exp.Evaluation.SourceID = w.Persona.Name
			scores = append(scores, exp.Evaluation.Score)
		}
		experiences = append(experiences, exp)
	}

	normalizeScores(scores, scale)
	return experiences, nil
}

// DecodeMultiModal parses a MultiModalValidationResult payload, validating
// it against the embedded schema and normalizing scores to 0–10. The
// payload's own aggregatedScore is normalized on the same scale decision as
// the perspective scores.
func DecodeMultiModal(data []byte, scale Scale) (*models.MultiModalOutcome, error) {
	if err := validate(multiModalSchema, data, "multi-modal"); err != nil {
		return nil, err
	}

	var w wireMultiModal
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding multi-modal payload: %w", err)
	}

	outcome := &models.MultiModalOutcome{
		ScreenshotPath:      w.ScreenshotPath,
		Rendered:            w.Rendered,
		GameState:           w.GameState,
		TemporalScreenshots: w.TemporalScreenshots,
		CodeValidation:      w.CodeValidation,
		AggregatedScore:     w.AggregatedScore,
		AggregatedIssues:    w.AggregatedIssues,
		Timestamp:           w.Timestamp,
	}

	var scores []*float64
	for _, p := range w.Perspectives {
		rec := models.PerspectiveRecord{
			Persona:     p.Persona,
			Perspective: p.Perspective,
			Focus:       p.Focus,
			Evaluation:  p.Evaluation.toModel(),
		}
		if rec.Evaluation != nil {
			rec.Evaluation.SourceID = p.Persona
			scores = append(scores, rec.Evaluation.Score)
		}
		outcome.Perspectives = append(outcome.Perspectives, rec)
	}

	scores = append(scores, outcome.AggregatedScore)
	normalizeScores(scores, scale)
	return outcome, nil
}

func validate(schema *jsonschema.Schema, data []byte, payload string) error {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("parsing %s payload: %w", payload, err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validating %s payload: %w", payload, err)
	}

	var problems []string
	collectSchemaErrors(ve, &problems)
	return &SchemaError{Payload: payload, Problems: problems}
}

func collectSchemaErrors(ve *jsonschema.ValidationError, problems *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*problems = append(*problems, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, problems)
	}
}

// normalizeScores rescales unit-scale scores to 0–10 in place. With
// ScaleAuto the whole batch is inspected: if every present score fits in
// [0, 1] the batch is assumed unit-scale. The decision is batch-wide so a
// payload can never end up half-converted.
func normalizeScores(scores []*float64, scale Scale) {
	if scale == ScaleTen {
		return
	}
	if scale == ScaleAuto {
		present := false
		for _, s := range scores {
			if s == nil {
				continue
			}
			present = true
			if *s > 1.0 {
				return
			}
		}
		if !present {
			return
		}
	}
	for _, s := range scores {
		if s != nil {
			*s *= models.MaxScore
		}
	}
}
