// Package personas defines the viewpoints a page is experienced from.
package personas

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pagecrit/pagecrit/internal/models"
)

// Builtin returns the stock persona set. Callers own the returned slice.
func Builtin() []models.Persona {
	return []models.Persona{
		{
			Name:        "Casual Gamer",
			Perspective: "entertainment",
			Focus:       []string{"gameplay", "user-experience", "fun-factor"},
		},
		{
			Name:        "Accessibility Advocate",
			Perspective: "accessibility",
			Focus:       []string{"wcag-compliance", "keyboard-navigation", "screen-reader-support"},
		},
		{
			Name:        "Mobile User",
			Perspective: "mobile-usability",
			Focus:       []string{"responsive-design", "touch-interactions", "mobile-performance"},
		},
	}
}

// LoadFile reads a YAML persona list. Names must be present and unique;
// a file that defines no personas is an error.
func LoadFile(path string) ([]models.Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading personas file: %w", err)
	}

	var loaded []models.Persona
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing personas file %q: %w", path, err)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("personas file %q defines no personas", path)
	}

	seen := make(map[string]bool, len(loaded))
	for i, p := range loaded {
		if p.Name == "" {
			return nil, fmt.Errorf("personas file %q: entry %d has no name", path, i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("personas file %q: duplicate persona %q", path, p.Name)
		}
		seen[p.Name] = true
	}

	return loaded, nil
}
