package models

// ExperienceNote is one observation recorded while a persona moves through a
// page (arrival, reading, interaction steps).
type ExperienceNote struct {
	Step        string `json:"step"`
	Persona     string `json:"persona"`
	Observation string `json:"observation"`
	Timestamp   int64  `json:"timestamp"`
	ElapsedMs   int64  `json:"elapsed"`
}

// ScreenshotRef points at a screenshot captured by the runtime. The file
// lives wherever the runtime wrote it; pagecrit never reads the image.
type ScreenshotRef struct {
	Path        string `json:"path"`
	Step        string `json:"step,omitempty"`
	Description string `json:"description,omitempty"`
	Timestamp   int64  `json:"timestamp"`
	ElapsedMs   int64  `json:"elapsed"`
}

// RenderedCode holds the page source as the browser rendered it.
type RenderedCode struct {
	HTML         string         `json:"html"`
	CSS          string         `json:"css"`
	DOMStructure map[string]any `json:"domStructure,omitempty"`
}

// PersonaExperience is the runtime's record of one persona's pass over a
// page: observations, screenshots, captured code and the AI evaluation.
type PersonaExperience struct {
	Persona     Persona           `json:"persona"`
	Notes       []ExperienceNote  `json:"notes"`
	Screenshots []ScreenshotRef   `json:"screenshots"`
	Rendered    *RenderedCode     `json:"renderedCode,omitempty"`
	GameState   map[string]any    `json:"gameState,omitempty"`
	Evaluation  *EvaluationResult `json:"evaluation,omitempty"`
	Timestamp   int64             `json:"timestamp"`
}

// Result flattens the experience into an EvaluationResult suitable for
// aggregation. The persona name becomes the source identifier and the
// persona's focus tags carry over when the evaluation did not set its own.
func (e *PersonaExperience) Result() EvaluationResult {
	var r EvaluationResult
	if e.Evaluation != nil {
		r = *e.Evaluation
	}
	if r.SourceID == "" {
		r.SourceID = e.Persona.Name
	}
	if len(r.FocusAreas) == 0 {
		r.FocusAreas = e.Persona.Focus
	}
	return r
}

// PerspectiveRecord is one entry of a multi-modal validation payload: a
// persona name, the angle it took, and its evaluation.
type PerspectiveRecord struct {
	Persona     string            `json:"persona"`
	Perspective string            `json:"perspective"`
	Focus       string            `json:"focus,omitempty"`
	Evaluation  *EvaluationResult `json:"evaluation,omitempty"`
}

// MultiModalOutcome is the runtime's combined visual + code validation
// record for a single page.
type MultiModalOutcome struct {
	ScreenshotPath      string              `json:"screenshotPath"`
	Rendered            *RenderedCode       `json:"renderedCode,omitempty"`
	GameState           map[string]any      `json:"gameState,omitempty"`
	TemporalScreenshots []ScreenshotRef     `json:"temporalScreenshots,omitempty"`
	Perspectives        []PerspectiveRecord `json:"perspectives"`
	CodeValidation      map[string]any      `json:"codeValidation,omitempty"`
	AggregatedScore     *float64            `json:"aggregatedScore,omitempty"`
	AggregatedIssues    []string            `json:"aggregatedIssues,omitempty"`
	Timestamp           int64               `json:"timestamp"`
}

// Results flattens the perspective records into EvaluationResults for
// aggregation, in payload order.
func (o *MultiModalOutcome) Results() []EvaluationResult {
	out := make([]EvaluationResult, 0, len(o.Perspectives))
	for _, p := range o.Perspectives {
		var r EvaluationResult
		if p.Evaluation != nil {
			r = *p.Evaluation
		}
		if r.SourceID == "" {
			r.SourceID = p.Persona
		}
		if len(r.FocusAreas) == 0 && p.Focus != "" {
			r.FocusAreas = []string{p.Focus}
		}
		out = append(out, r)
	}
	return out
}
