/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package platter

import (
	"testing"

	"platterkit/geom"
)

const eps = 1e-3

func near(a, b float32) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

// regularInput is the baseline from the acceptance scenarios: a 400x800
// container, 16pt margin, 8pt alignment padding, 300x200 panel.
func regularInput(src geom.Rect) placementInput {
	return placementInput{
		Source:    src,
		Align:     src,
		HasSource: true,
		Bounds:    geom.R(0, 0, 400, 800),
		Margin:    16,
		Padding:   8,
		PanelSize: geom.Size{W: 300, H: 200},
		SizeClass: SizeClassRegular,
	}
}

func TestPlacementDeterministic(t *testing.T) {
	in := regularInput(geom.R(20, 20, 100, 40))
	in.Keyboard = geom.R(0, 600, 400, 256)
	in.HasKeyboard = true
	a := computePlacement(in)
	b := computePlacement(in)
	if a != b {
		t.Fatalf("same input produced different results: %+v vs %+v", a, b)
	}
}

func TestPlacementBelowSource(t *testing.T) {
	res := computePlacement(regularInput(geom.R(20, 20, 100, 40)))
	if res.Anchor.Y != 0 {
		t.Fatalf("expected anchor.Y=0 (pinned top) when placed below, got %v", res.Anchor.Y)
	}
	f := res.frameFor(geom.Size{W: 300, H: 200})
	// Panel top sits at alignment max + padding.
	if !near(f.Y, 68) {
		t.Fatalf("expected panel top 68, got %v", f.Y)
	}
	// Leading alignment: panel leading edge meets the alignment rect's.
	if !near(f.X, 20) {
		t.Fatalf("expected panel leading edge 20, got %v", f.X)
	}
	// Anchor fraction marks where the source midpoint falls in the span.
	if !near(res.Anchor.X, 50.0/300.0) {
		t.Fatalf("expected anchor.X=1/6, got %v", res.Anchor.X)
	}
}

func TestPlacementAboveWhenBelowDoesNotFit(t *testing.T) {
	res := computePlacement(regularInput(geom.R(20, 750, 100, 40)))
	if res.Anchor.Y != 1 {
		t.Fatalf("expected anchor.Y=1 (pinned bottom) when placed above, got %v", res.Anchor.Y)
	}
	f := res.frameFor(geom.Size{W: 300, H: 200})
	if !near(f.MaxY(), 742) {
		t.Fatalf("expected panel bottom 742 (align min - padding), got %v", f.MaxY())
	}
}

func TestPlacementBelowWinsWheneverItFits(t *testing.T) {
	// Both directions fit here; below must win regardless.
	res := computePlacement(regularInput(geom.R(20, 500, 100, 40)))
	if res.Anchor.Y != 0 {
		t.Fatalf("below fits, expected anchor.Y=0, got %v", res.Anchor.Y)
	}
}

func TestPlacementNeitherFits(t *testing.T) {
	in := regularInput(geom.R(20, 40, 100, 40))
	in.Bounds = geom.R(0, 0, 400, 300)
	in.PanelSize = geom.Size{W: 300, H: 250}
	// Source midpoint (60) is in the upper half of usable bounds -> down.
	if res := computePlacement(in); res.Anchor.Y != 0 {
		t.Fatalf("upper-half source must choose down, got anchor.Y=%v", res.Anchor.Y)
	}
	in.Source = geom.R(20, 220, 100, 40)
	in.Align = in.Source
	// Midpoint 240 is in the lower half -> up.
	if res := computePlacement(in); res.Anchor.Y != 1 {
		t.Fatalf("lower-half source must choose up, got anchor.Y=%v", res.Anchor.Y)
	}
}

func TestPlacementAutomaticTrailing(t *testing.T) {
	res := computePlacement(regularInput(geom.R(280, 20, 100, 40)))
	f := res.frameFor(geom.Size{W: 300, H: 200})
	// Trailing candidate 230 clamps to the usable max of 234.
	if !near(f.MidX(), 230) {
		t.Fatalf("expected trailing center 230, got %v", f.MidX())
	}
	if !near(res.Anchor.X, 250.0/300.0) {
		t.Fatalf("expected anchor.X=250/300, got %v", res.Anchor.X)
	}
}

func TestPlacementCenterAlignment(t *testing.T) {
	in := regularInput(geom.R(150, 20, 100, 40))
	in.Alignment = AlignCenter
	res := computePlacement(in)
	f := res.frameFor(geom.Size{W: 300, H: 200})
	if !near(f.MidX(), 200) {
		t.Fatalf("expected centered panel at x=200, got %v", f.MidX())
	}
	if !near(res.Anchor.X, 0.5) {
		t.Fatalf("expected anchor.X=0.5, got %v", res.Anchor.X)
	}
}

func TestPlacementCrossAnchorStaysNormalized(t *testing.T) {
	for _, src := range []geom.Rect{
		geom.R(0, 20, 40, 40),
		geom.R(180, 20, 40, 40),
		geom.R(360, 20, 40, 40),
		geom.R(20, 20, 360, 40),
	} {
		res := computePlacement(regularInput(src))
		if res.Anchor.X < 0 || res.Anchor.X > 1 || res.Anchor.Y < 0 || res.Anchor.Y > 1 {
			t.Fatalf("anchor out of range for src %+v: %+v", src, res.Anchor)
		}
	}
}

func TestPlacementKeyboardAvoidance(t *testing.T) {
	in := regularInput(geom.R(20, 442, 100, 40))
	in.Keyboard = geom.R(0, 600, 400, 256)
	in.HasKeyboard = true
	in.AvoidKeyboard = true
	res := computePlacement(in)
	f := res.frameFor(geom.Size{W: 300, H: 200})
	// Unavoided bottom would be 690; the panel is lifted so that its bottom
	// clears the keyboard top by one margin.
	if !near(f.MaxY(), 584) {
		t.Fatalf("expected bottom 584 (keyboard top - margin), got %v", f.MaxY())
	}

	// Disabled avoidance never moves the panel, keyboard or not.
	in.AvoidKeyboard = false
	res = computePlacement(in)
	f = res.frameFor(geom.Size{W: 300, H: 200})
	if !near(f.MaxY(), 690) {
		t.Fatalf("expected untouched bottom 690, got %v", f.MaxY())
	}

	// Mid-dismissal the keyboard is ignored as well.
	in.AvoidKeyboard = true
	in.Dismissing = true
	res = computePlacement(in)
	if f = res.frameFor(geom.Size{W: 300, H: 200}); !near(f.MaxY(), 690) {
		t.Fatalf("expected dismissal to skip keyboard avoidance, got bottom %v", f.MaxY())
	}
}

func TestPlacementCompactSwapsAxes(t *testing.T) {
	in := placementInput{
		Source:    geom.R(30, 100, 60, 40),
		Align:     geom.R(30, 100, 60, 40),
		HasSource: true,
		Bounds:    geom.R(0, 0, 800, 400),
		Margin:    16,
		Padding:   8,
		PanelSize: geom.Size{W: 300, H: 200},
		SizeClass: SizeClassCompact,
	}
	res := computePlacement(in)
	// Main axis is horizontal: panel sits trailing the source with its
	// leading edge at align max + padding, pinned by anchor.X=0.
	if res.Anchor.X != 0 {
		t.Fatalf("expected anchor.X=0 in compact trailing placement, got %v", res.Anchor.X)
	}
	f := res.frameFor(geom.Size{W: 300, H: 200})
	if !near(f.X, 98) {
		t.Fatalf("expected panel leading edge 98, got %v", f.X)
	}
	// Cross axis is vertical now; the anchor tracks the source midpoint.
	if !near(res.Anchor.Y, 0.1) {
		t.Fatalf("expected anchor.Y=0.1, got %v", res.Anchor.Y)
	}
}

func TestPlacementSafeAreaShrinksUsableBounds(t *testing.T) {
	in := regularInput(geom.R(20, 20, 100, 40))
	in.SafeArea = geom.Insets{Top: 44}
	res := computePlacement(in)
	f := res.frameFor(geom.Size{W: 300, H: 200})
	if f.Y < 60 { // 44 safe area + 16 margin
		t.Fatalf("panel intrudes into safe area: top %v", f.Y)
	}
}

func TestPlacementFrozenAnchor(t *testing.T) {
	frozen := geom.Pt{X: 0.2, Y: 0.7}
	in := regularInput(geom.R(20, 20, 100, 40))
	in.FrozenAnchor = &frozen
	res := computePlacement(in)
	if res.Anchor != frozen {
		t.Fatalf("expected frozen anchor %+v, got %+v", frozen, res.Anchor)
	}
}

func TestPlacementNoSourceCenters(t *testing.T) {
	in := placementInput{
		Bounds:    geom.R(0, 0, 400, 800),
		SafeArea:  geom.Insets{Top: 40},
		Margin:    16,
		Padding:   8,
		PanelSize: geom.Size{W: 300, H: 200},
	}
	res := computePlacement(in)
	if res.Anchor != (geom.Pt{X: 0.5, Y: 0.5}) {
		t.Fatalf("expected centered anchor, got %+v", res.Anchor)
	}
	f := res.frameFor(geom.Size{W: 300, H: 200})
	if !near(f.MidX(), 200) || !near(f.MidY(), 420) {
		t.Fatalf("expected centering at (200,420), got (%v,%v)", f.MidX(), f.MidY())
	}
}

func TestPlacementShrinkToFitAtEdges(t *testing.T) {
	// Panel wider than the usable bounds: the cross axis collapses to the
	// usable midpoint instead of escaping the margins.
	in := regularInput(geom.R(20, 20, 100, 40))
	in.PanelSize = geom.Size{W: 500, H: 200}
	res := computePlacement(in)
	f := res.frameFor(geom.Size{W: 500, H: 200})
	if !near(f.MidX(), 200) {
		t.Fatalf("oversized panel should center in usable bounds, got mid %v", f.MidX())
	}
}
