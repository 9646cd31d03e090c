package runner

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/pagecrit/pagecrit/internal/models"
)

// MockProducer fabricates deterministic persona experiences without a
// browser, a node runtime, or an API key. Scores and issues depend only on
// the persona name, so repeated runs are identical.
type MockProducer struct {
	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
}

func (m *MockProducer) Produce(ctx context.Context, req Request) ([]models.PersonaExperience, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	ts := now().Unix()

	experiences := make([]models.PersonaExperience, 0, len(req.Personas))
	for _, persona := range req.Personas {
		experiences = append(experiences, m.experience(persona, req.URL, ts))
	}
	return experiences, nil
}

func (m *MockProducer) experience(persona models.Persona, url string, ts int64) models.PersonaExperience {
	score := mockScore(persona.Name)

	issues := []string{}
	if score < 8.5 {
		issues = append(issues, fmt.Sprintf("Minor %s concern", persona.Perspective))
	}

	slug := strings.ToLower(strings.ReplaceAll(persona.Name, " ", "-"))

	return models.PersonaExperience{
		Persona: persona,
		Notes: []models.ExperienceNote{
			{
				Step:        "initial_experience",
				Persona:     persona.Name,
				Observation: fmt.Sprintf("Arrived at %s - viewed from %s perspective", url, persona.Perspective),
				Timestamp:   ts,
				ElapsedMs:   0,
			},
			{
				Step:        "reading",
				Persona:     persona.Name,
				Observation: fmt.Sprintf("Reading page content focusing on: %s", strings.Join(persona.Focus, ", ")),
				Timestamp:   ts + 1,
				ElapsedMs:   1000,
			},
		},
		Screenshots: []models.ScreenshotRef{
			{
				Path:        fmt.Sprintf("test-results/persona-%s-page-load-%d.png", slug, ts),
				Step:        "page-load",
				Description: "Page loaded",
				Timestamp:   ts,
				ElapsedMs:   0,
			},
		},
		Rendered: &models.RenderedCode{
			HTML: "<html><head><title>Mock Page</title></head><body><main><h1>Mock Page</h1></main></body></html>",
			CSS:  "body { margin: 0; }",
		},
		Evaluation: &models.EvaluationResult{
			SourceID:     persona.Name,
			Score:        models.Float64Ptr(score),
			Issues:       issues,
			Assessment:   fmt.Sprintf("Good experience from %s perspective", persona.Perspective),
			Reasoning:    fmt.Sprintf("Page meets most expectations for %s", persona.Name),
			FocusAreas:   persona.Focus,
			Provider:     "mock",
			ResponseTime: 2.5,
		},
		Timestamp: ts,
	}
}

// mockScore maps a persona name to a stable score in [7.5, 9.4].
func mockScore(name string) float64 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return 7.5 + float64(h.Sum32()%20)/10.0
}
