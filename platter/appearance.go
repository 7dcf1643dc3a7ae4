/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package platter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// Appearance gathers every visual tunable of the platter. All values have
// working defaults; presets loaded from disk override selectively.
type Appearance struct {
	CornerRadius     float32
	ShadowBlur       float32
	ShadowAlphaLight float32
	ShadowAlphaDark  float32

	ScreenMargin     float32
	AlignmentPadding float32

	CollapsedScale float32
	// CollapsedMinHeight keeps the collapsed frame from degenerating to a
	// zero-height transform. Tunable, not derived from content.
	CollapsedMinHeight float32

	// CompactHeightThreshold classifies the vertical size class: canvases
	// shorter than this (and wider than tall) count as compact.
	CompactHeightThreshold float32

	ExpandDuration time.Duration
	SwapDuration   time.Duration
}

// DefaultAppearance returns the stock platter look.
func DefaultAppearance() Appearance {
	return Appearance{
		CornerRadius:           13,
		ShadowBlur:             24,
		ShadowAlphaLight:       0.21,
		ShadowAlphaDark:        0.60,
		ScreenMargin:           16,
		AlignmentPadding:       8,
		CollapsedScale:         0.2,
		CollapsedMinHeight:     50,
		CompactHeightThreshold: 500,
		ExpandDuration:         500 * time.Millisecond,
		SwapDuration:           350 * time.Millisecond,
	}
}

// shadowAlpha picks the theme-dependent shadow opacity.
func (a Appearance) shadowAlpha(dark bool) float32 {
	if dark {
		return a.ShadowAlphaDark
	}
	return a.ShadowAlphaLight
}

// sizeClassFor classifies the available space.
func (a Appearance) sizeClassFor(w, h float32) SizeClass {
	if h < a.CompactHeightThreshold && h < w {
		return SizeClassCompact
	}
	return SizeClassRegular
}

// appearanceSchema validates preset files before any value is applied, so a
// bad preset never half-configures the look.
const appearanceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "corner_radius":            {"type": "number", "minimum": 0},
    "shadow_blur":              {"type": "number", "minimum": 0},
    "shadow_alpha_light":       {"type": "number", "minimum": 0, "maximum": 1},
    "shadow_alpha_dark":        {"type": "number", "minimum": 0, "maximum": 1},
    "screen_margin":            {"type": "number", "minimum": 0},
    "alignment_padding":        {"type": "number", "minimum": 0},
    "collapsed_scale":          {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
    "collapsed_min_height":     {"type": "number", "minimum": 0},
    "compact_height_threshold": {"type": "number", "minimum": 0},
    "expand_ms":                {"type": "number", "exclusiveMinimum": 0},
    "swap_ms":                  {"type": "number", "exclusiveMinimum": 0}
  }
}`

type appearancePreset struct {
	CornerRadius           *float32 `json:"corner_radius"`
	ShadowBlur             *float32 `json:"shadow_blur"`
	ShadowAlphaLight       *float32 `json:"shadow_alpha_light"`
	ShadowAlphaDark        *float32 `json:"shadow_alpha_dark"`
	ScreenMargin           *float32 `json:"screen_margin"`
	AlignmentPadding       *float32 `json:"alignment_padding"`
	CollapsedScale         *float32 `json:"collapsed_scale"`
	CollapsedMinHeight     *float32 `json:"collapsed_min_height"`
	CompactHeightThreshold *float32 `json:"compact_height_threshold"`
	ExpandMs               *float64 `json:"expand_ms"`
	SwapMs                 *float64 `json:"swap_ms"`
}

// LoadAppearance reads a JSON preset file and applies it over the defaults.
// The preset is schema-validated first; on any error the defaults are
// returned untouched together with the error.
func LoadAppearance(path string) (Appearance, error) {
	a := DefaultAppearance()
	data, err := os.ReadFile(path)
	if err != nil {
		return a, fmt.Errorf("read appearance preset: %w", err)
	}
	return ParseAppearance(data)
}

// ParseAppearance applies a JSON preset document over the defaults.
func ParseAppearance(data []byte) (Appearance, error) {
	a := DefaultAppearance()

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(appearanceSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return a, fmt.Errorf("validate appearance preset: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return a, fmt.Errorf("invalid appearance preset: %s", strings.Join(msgs, "; "))
	}

	var p appearancePreset
	if err := json.Unmarshal(data, &p); err != nil {
		return a, fmt.Errorf("decode appearance preset: %w", err)
	}
	applyF32 := func(dst *float32, src *float32) {
		if src != nil {
			*dst = *src
		}
	}
	applyF32(&a.CornerRadius, p.CornerRadius)
	applyF32(&a.ShadowBlur, p.ShadowBlur)
	applyF32(&a.ShadowAlphaLight, p.ShadowAlphaLight)
	applyF32(&a.ShadowAlphaDark, p.ShadowAlphaDark)
	applyF32(&a.ScreenMargin, p.ScreenMargin)
	applyF32(&a.AlignmentPadding, p.AlignmentPadding)
	applyF32(&a.CollapsedScale, p.CollapsedScale)
	applyF32(&a.CollapsedMinHeight, p.CollapsedMinHeight)
	applyF32(&a.CompactHeightThreshold, p.CompactHeightThreshold)
	if p.ExpandMs != nil {
		a.ExpandDuration = time.Duration(*p.ExpandMs * float64(time.Millisecond))
	}
	if p.SwapMs != nil {
		a.SwapDuration = time.Duration(*p.SwapMs * float64(time.Millisecond))
	}
	return a, nil
}
