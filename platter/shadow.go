/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package platter

import (
	"image"
	"image/color"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"

	"platterkit/geom"
)

// The shadow texture is a rounded-rect silhouette with a soft outer falloff
// and the interior punched back out, so a translucent panel never shows its
// own shadow through itself. It is a pure function of the appearance
// constants; the default-appearance texture is built once and shared.

var (
	shadowOnce   sync.Once
	sharedShadow *image.NRGBA
)

// sharedShadowTexture returns the process-wide texture for the default
// appearance. Immutable after first construction; safe for concurrent reads.
func sharedShadowTexture() *image.NRGBA {
	shadowOnce.Do(func() {
		sharedShadow = ShadowTexture(DefaultAppearance())
	})
	return sharedShadow
}

// shadowTextureFor picks the shared texture when possible.
func shadowTextureFor(a Appearance) *image.NRGBA {
	d := DefaultAppearance()
	if a.CornerRadius == d.CornerRadius && a.ShadowBlur == d.ShadowBlur {
		return sharedShadowTexture()
	}
	return ShadowTexture(a)
}

// ShadowTexture renders the stretchable cut-out shadow image. The image is
// sized to hold both rounded corners plus one stretchable center pixel per
// axis, surrounded by the blur apron; consumers stretch it over the panel
// frame grown by the blur on each side.
func ShadowTexture(a Appearance) *image.NRGBA {
	radius := int(a.CornerRadius)
	blur := int(a.ShadowBlur)
	if radius < 1 {
		radius = 1
	}
	if blur < 2 {
		blur = 2
	}
	inner := 2*radius + 1
	full := inner + 2*blur

	// The falloff decays quadratically with distance from the rounded-rect
	// boundary out to the blur radius. The band is rendered at half
	// resolution and Catmull-Rom upscaled; it is many pixels wide, so the
	// interpolation stays smooth.
	const scale = 2
	lw := (full + scale - 1) / scale
	low := image.NewNRGBA(image.Rect(0, 0, lw, lw))
	for y := 0; y < lw; y++ {
		for x := 0; x < lw; x++ {
			px := (float32(x) + 0.5) * scale
			py := (float32(y) + 0.5) * scale
			d := roundedRectDistance(px, py, float32(blur), float32(blur), float32(inner), float32(inner), float32(radius))
			if d <= 0 || d >= float32(blur) {
				continue
			}
			t := 1 - d/float32(blur)
			low.SetNRGBA(x, y, color.NRGBA{A: uint8(255 * t * t)})
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, full, full))
	xdraw.CatmullRom.Scale(out, out.Bounds(), low, low.Bounds(), xdraw.Src, nil)

	// Punch the interior back out along the exact rounded rect.
	for y := 0; y < full; y++ {
		for x := 0; x < full; x++ {
			px := float32(x) + 0.5
			py := float32(y) + 0.5
			if insideRoundedRect(px, py, float32(blur), float32(blur), float32(inner), float32(inner), float32(radius)) {
				out.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return out
}

func insideRoundedRect(px, py, x, y, w, h, r float32) bool {
	if px < x || py < y || px > x+w || py > y+h {
		return false
	}
	// Corner circles.
	cx := geom.Clamp(px, x+r, x+w-r)
	cy := geom.Clamp(py, y+r, y+h-r)
	dx := px - cx
	dy := py - cy
	return dx*dx+dy*dy <= r*r
}

// roundedRectDistance is the signed distance from a point to the rounded
// rect boundary: negative inside, positive outside.
func roundedRectDistance(px, py, x, y, w, h, r float32) float32 {
	cx := geom.Clamp(px, x+r, x+w-r)
	cy := geom.Clamp(py, y+r, y+h-r)
	dx := px - cx
	dy := py - cy
	return float32(math.Sqrt(float64(dx*dx+dy*dy))) - r
}
