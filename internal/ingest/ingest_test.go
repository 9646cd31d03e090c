package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const experiencePayload = `[
  {
    "persona": {
      "name": "Accessibility Advocate",
      "perspective": "accessibility",
      "focus": ["wcag-compliance", "keyboard-navigation"]
    },
    "notes": [
      {
        "step": "initial_experience",
        "persona": "Accessibility Advocate",
        "observation": "Arrived at page",
        "timestamp": 1234567890,
        "elapsed": 0
      }
    ],
    "screenshots": [
      {
        "path": "test-results/persona-accessibility-advocate-page-load.png",
        "step": "page-load",
        "timestamp": 1234567890,
        "elapsed": 0
      }
    ],
    "renderedCode": {"html": "<html>...</html>", "css": "body { }"},
    "evaluation": {
      "enabled": true,
      "provider": "gemini",
      "score": 0.75,
      "issues": ["Minor accessibility concern"],
      "assessment": "Good experience from accessibility perspective",
      "responseTime": 2.5,
      "cached": false
    },
    "timestamp": 1234567890
  },
  {
    "persona": {"name": "Casual Gamer", "perspective": "entertainment"},
    "evaluation": {"enabled": true, "provider": "gemini", "score": 0.9, "issues": []}
  }
]`

func TestDecodeExperiences(t *testing.T) {
	exps, err := DecodeExperiences([]byte(experiencePayload), ScaleAuto)
	require.NoError(t, err)
	require.Len(t, exps, 2)

	first := exps[0]
	require.Equal(t, "Accessibility Advocate", first.Persona.Name)
	require.Len(t, first.Notes, 1)
	require.Len(t, first.Screenshots, 1)
	require.NotNil(t, first.Rendered)

	// 0.75 on the unit scale becomes 7.5 canonical
	require.NotNil(t, first.Evaluation)
	require.Equal(t, "Accessibility Advocate", first.Evaluation.SourceID)
	require.InDelta(t, 7.5, *first.Evaluation.Score, 1e-9)
	require.Equal(t, "gemini", first.Evaluation.Provider)

	require.InDelta(t, 9.0, *exps[1].Evaluation.Score, 1e-9)
}

func TestDecodeExperiences_ExplicitTenScale(t *testing.T) {
	// All scores <= 1.0 would trip the heuristic; an explicit scale wins.
	payload := `[{"persona": {"name": "A"}, "evaluation": {"score": 1.0}}]`
	exps, err := DecodeExperiences([]byte(payload), ScaleTen)
	require.NoError(t, err)
	require.Equal(t, 1.0, *exps[0].Evaluation.Score)
}

func TestDecodeExperiences_MixedScoresStayTenScale(t *testing.T) {
	// One score above 1.0 means the batch is already canonical.
	payload := `[
	  {"persona": {"name": "A"}, "evaluation": {"score": 0.5}},
	  {"persona": {"name": "B"}, "evaluation": {"score": 8.5}}
	]`
	exps, err := DecodeExperiences([]byte(payload), ScaleAuto)
	require.NoError(t, err)
	require.Equal(t, 0.5, *exps[0].Evaluation.Score)
	require.Equal(t, 8.5, *exps[1].Evaluation.Score)
}

func TestDecodeExperiences_MissingPersonaName(t *testing.T) {
	payload := `[{"persona": {"perspective": "accessibility"}}]`
	_, err := DecodeExperiences([]byte(payload), ScaleAuto)

	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	require.NotEmpty(t, serr.Problems)
}

func TestDecodeExperiences_NotJSON(t *testing.T) {
	_, err := DecodeExperiences([]byte("not json"), ScaleAuto)
	require.Error(t, err)
}

func TestDecodeExperiences_NullScore(t *testing.T) {
	payload := `[{"persona": {"name": "A"}, "evaluation": {"score": null, "issues": ["x"]}}]`
	exps, err := DecodeExperiences([]byte(payload), ScaleAuto)
	require.NoError(t, err)
	require.Nil(t, exps[0].Evaluation.Score)
	require.Equal(t, []string{"x"}, exps[0].Evaluation.Issues)
}

const multiModalPayload = `{
  "screenshotPath": "test-results/multimodal-homepage-test-1234567890.png",
  "renderedCode": {"html": "<html>...</html>", "css": "body { }", "domStructure": {}},
  "temporalScreenshots": [],
  "perspectives": [
    {
      "persona": "Design Critic",
      "perspective": "visual-design",
      "focus": "aesthetics",
      "evaluation": {
        "score": 8.5,
        "issues": ["Minor contrast issue"],
        "assessment": "Good overall design",
        "reasoning": "Well-structured layout with minor improvements needed"
      }
    }
  ],
  "codeValidation": {},
  "aggregatedScore": 8.5,
  "aggregatedIssues": ["Minor contrast issue"],
  "timestamp": 1234567890
}`

func TestDecodeMultiModal(t *testing.T) {
	outcome, err := DecodeMultiModal([]byte(multiModalPayload), ScaleAuto)
	require.NoError(t, err)

	require.Equal(t, "test-results/multimodal-homepage-test-1234567890.png", outcome.ScreenshotPath)
	require.Len(t, outcome.Perspectives, 1)

	p := outcome.Perspectives[0]
	require.Equal(t, "Design Critic", p.Persona)
	require.Equal(t, "Design Critic", p.Evaluation.SourceID)
	require.Equal(t, 8.5, *p.Evaluation.Score)
	require.Equal(t, []string{"Minor contrast issue"}, p.Evaluation.Issues)

	require.Equal(t, 8.5, *outcome.AggregatedScore)
	require.Equal(t, []string{"Minor contrast issue"}, outcome.AggregatedIssues)

	results := outcome.Results()
	require.Len(t, results, 1)
	require.Equal(t, []string{"aesthetics"}, results[0].FocusAreas)
}

func TestDecodeMultiModal_UnitScaleRescalesAggregate(t *testing.T) {
	payload := `{
	  "perspectives": [{"persona": "A", "evaluation": {"score": 0.8}}],
	  "aggregatedScore": 0.8
	}`
	outcome, err := DecodeMultiModal([]byte(payload), ScaleAuto)
	require.NoError(t, err)
	require.InDelta(t, 8.0, *outcome.Perspectives[0].Evaluation.Score, 1e-9)
	require.InDelta(t, 8.0, *outcome.AggregatedScore, 1e-9)
}

func TestDecodeMultiModal_MissingPerspectives(t *testing.T) {
	_, err := DecodeMultiModal([]byte(`{"screenshotPath": "x.png"}`), ScaleAuto)

	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
}
