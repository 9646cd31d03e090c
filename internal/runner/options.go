package runner

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Options are the capture settings forwarded to the node runtime. They
// arrive as free-form maps (YAML config, CLI) and are decoded here.
type Options struct {
	ViewportWidth      int    `mapstructure:"viewport_width"`
	ViewportHeight     int    `mapstructure:"viewport_height"`
	Device             string `mapstructure:"device"`
	FPS                int    `mapstructure:"fps"`
	DurationMs         int    `mapstructure:"duration"`
	CaptureScreenshots bool   `mapstructure:"capture_screenshots"`
	CaptureState       bool   `mapstructure:"capture_state"`
	CaptureCode        bool   `mapstructure:"capture_code"`
	MultiPerspective   bool   `mapstructure:"multi_perspective"`
}

// DefaultOptions mirrors the runtime's own defaults.
func DefaultOptions() Options {
	return Options{
		ViewportWidth:      1280,
		ViewportHeight:     720,
		Device:             "desktop",
		FPS:                2,
		DurationMs:         2000,
		CaptureScreenshots: true,
		CaptureState:       true,
		CaptureCode:        true,
		MultiPerspective:   true,
	}
}

// DecodeOptions overlays params onto the defaults. Unknown keys are an
// error so typos in config files surface instead of silently reverting to
// defaults.
func DecodeOptions(params map[string]any) (Options, error) {
	opts := DefaultOptions()
	if len(params) == 0 {
		return opts, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: true,
	})
	if err != nil {
		return opts, fmt.Errorf("building options decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return opts, fmt.Errorf("decoding runner options: %w", err)
	}
	return opts, nil
}

// toMap flattens options for cache keying.
func (o Options) toMap() map[string]any {
	return map[string]any{
		"viewport_width":      o.ViewportWidth,
		"viewport_height":     o.ViewportHeight,
		"device":              o.Device,
		"fps":                 o.FPS,
		"duration":            o.DurationMs,
		"capture_screenshots": o.CaptureScreenshots,
		"capture_state":       o.CaptureState,
		"capture_code":        o.CaptureCode,
		"multi_perspective":   o.MultiPerspective,
	}
}
