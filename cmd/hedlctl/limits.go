package main

import (
	"fmt"

	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

// optionsForPreset resolves a --limits preset name to an Options value.
// HEDL only names two presets (unlike the teacher's default/strict/relaxed
// trio): there is no "relaxed" mode in the spec.
func optionsForPreset(preset string) (hedltype.Options, error) {
	switch preset {
	case "", "default":
		return hedltype.DefaultOptions(), nil
	case "strict":
		return hedltype.StrictOptions(), nil
	default:
		return hedltype.Options{}, fmt.Errorf("unknown limits preset: %s (must be default or strict)", preset)
	}
}
