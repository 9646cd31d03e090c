package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pagecrit/pagecrit/internal/ingest"
	"github.com/pagecrit/pagecrit/internal/models"
)

// Request asks a Producer for one page's persona experiences.
type Request struct {
	URL      string
	Personas []models.Persona
	Options  Options
}

// Producer yields persona experiences for a request. The node runtime and
// the mock generator both implement it, so everything downstream of this
// seam is independent of where the data came from.
type Producer interface {
	Produce(ctx context.Context, req Request) ([]models.PersonaExperience, error)
}

// NodeProducer runs the real runtime: it writes the persona script to a
// scratch directory and executes it with the configured node binary.
type NodeProducer struct {
	// Node is the node executable; "node" resolves via PATH.
	Node string

	// Timeout bounds a single run. Zero means no bound beyond ctx.
	Timeout time.Duration

	// APIKey is forwarded to the runtime's environment under APIKeyVar.
	APIKey string

	// APIKeyVar names the variable APIKey is exported as, e.g.
	// "OPENAI_API_KEY". Defaults to "GEMINI_API_KEY" when empty.
	APIKeyVar string
}

// environ builds the child environment: the parent's, plus the API key
// exported under the provider's own variable name.
func (p *NodeProducer) environ() []string {
	env := os.Environ()
	if p.APIKey == "" {
		return env
	}
	envVar := p.APIKeyVar
	if envVar == "" {
		envVar = "GEMINI_API_KEY"
	}
	return append(env, envVar+"="+p.APIKey)
}

// runtimeError is the JSON shape the generated script prints on stderr
// before exiting non-zero.
type runtimeError struct {
	Error string `json:"error"`
	Stack string `json:"stack"`
}

// Produce executes the runner script and ingests its stdout.
func (p *NodeProducer) Produce(ctx context.Context, req Request) ([]models.PersonaExperience, error) {
	script, err := PersonaScript(ScriptConfig{
		URL:      req.URL,
		Personas: req.Personas,
		Options:  req.Options,
	})
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "pagecrit-runner-*")
	if err != nil {
		return nil, fmt.Errorf("creating runner workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("failed to remove runner workspace", "dir", dir, "error", err)
		}
	}()

	scriptPath := filepath.Join(dir, "validate.mjs")
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return nil, fmt.Errorf("writing runner script: %w", err)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	node := p.Node
	if node == "" {
		node = "node"
	}

	cmd := exec.CommandContext(ctx, node, scriptPath)
	cmd.Env = p.environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running browser validation", "url", req.URL, "personas", len(req.Personas))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("runner for %s: %w", req.URL, ctx.Err())
		}
		var rerr runtimeError
		if jsonErr := json.Unmarshal(stderr.Bytes(), &rerr); jsonErr == nil && rerr.Error != "" {
			return nil, fmt.Errorf("runner for %s: %s", req.URL, rerr.Error)
		}
		return nil, fmt.Errorf("runner for %s: %w: %s", req.URL, err, stderr.String())
	}

	experiences, err := ingest.DecodeExperiences(stdout.Bytes(), ingest.ScaleAuto)
	if err != nil {
		return nil, fmt.Errorf("runner for %s: %w", req.URL, err)
	}
	return experiences, nil
}
