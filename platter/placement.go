/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package platter

import "platterkit/geom"

// Alignment selects how the panel lines up with the alignment rect on the
// cross axis (horizontal in regular size class, vertical in compact).
type Alignment int

const (
	// AlignAutomatic picks the start or end edge depending on which half of
	// the container the alignment rect sits in.
	AlignAutomatic Alignment = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// SizeClass is the coarse classification of available vertical space. It
// picks which axis mapping the placement algorithm uses.
type SizeClass int

const (
	// SizeClassRegular lays the panel above/below the alignment rect.
	SizeClassRegular SizeClass = iota
	// SizeClassCompact lays the panel leading/trailing instead, with the
	// main and cross axes swapped.
	SizeClassCompact
)

// placementInput carries everything the engine reads. It is a snapshot: the
// engine never consults live view state, which keeps it deterministic.
type placementInput struct {
	Source    geom.Rect // rect the open/close animation anchors to
	Align     geom.Rect // rect driving axis alignment; equals Source unless overridden
	HasSource bool

	Bounds   geom.Rect
	SafeArea geom.Insets
	Margin   float32 // clearance kept from the usable edges
	Padding  float32 // breathing room added around the alignment rect

	PanelSize geom.Size
	Alignment Alignment
	SizeClass SizeClass

	Keyboard      geom.Rect
	HasKeyboard   bool
	AvoidKeyboard bool
	Dismissing    bool

	// FrozenAnchor, when non-nil, replaces the computed anchor point. Set
	// during a content-swap animation so the pivot does not drift mid-flight.
	FrozenAnchor *geom.Pt
}

// placementResult is the engine's verdict for one layout pass.
//
// Pivot is the point in container space where the panel's normalized anchor
// sits. A frame of any size s placed about the anchor a has origin
// pivot - a*s, so resizing about the anchor keeps the pivot screen-fixed.
type placementResult struct {
	Pivot  geom.Pt
	Anchor geom.Pt
}

// frameFor converts a placement into a concrete frame for the given size.
func (p placementResult) frameFor(s geom.Size) geom.Rect {
	return geom.R(p.Pivot.X-p.Anchor.X*s.W, p.Pivot.Y-p.Anchor.Y*s.H, s.W, s.H)
}

// axis flattens one dimension of the problem so the same scalar math serves
// both size classes.
type axis struct {
	alignMin, alignMax, alignMid float32
	srcMid                       float32
	usableMin, usableMax         float32
	panel                        float32
}

func (a axis) usableMid() float32 { return (a.usableMin + a.usableMax) / 2 }

// crossPlace picks the panel center along the cross axis and the matching
// anchor fraction. The anchor tracks the source rect, not the alignment
// rect, so the animation originates from the tapped control even when the
// two differ.
func crossPlace(a axis, al Alignment) (center, anchor float32) {
	var candidate float32
	switch al {
	case AlignStart:
		candidate = a.alignMin + a.panel/2
	case AlignCenter:
		candidate = a.alignMid
	case AlignEnd:
		candidate = a.alignMax - a.panel/2
	default: // AlignAutomatic
		if a.alignMid <= a.usableMid() {
			candidate = a.alignMin + a.panel/2
		} else {
			candidate = a.alignMax - a.panel/2
		}
	}
	center = geom.Clamp(candidate, a.usableMin+a.panel/2, a.usableMax-a.panel/2)
	if a.panel <= 0 {
		return center, 0.5
	}
	anchor = geom.Clamp01((a.srcMid - (center - a.panel/2)) / a.panel)
	return center, anchor
}

// mainPlace decides the before/after side along the main axis. After (below
// in regular class) wins whenever it fits; otherwise before if it fits;
// when neither fits the side is chosen by which half of the usable bounds
// holds the source midpoint.
func mainPlace(a axis, padding float32) (center, anchor float32) {
	padMin := a.alignMin - padding
	padMax := a.alignMax + padding
	fitsAfter := padMax+a.panel <= a.usableMax
	fitsBefore := padMin-a.panel >= a.usableMin

	goAfter := fitsAfter || (!fitsBefore && a.srcMid <= a.usableMid())
	if goAfter {
		lead := geom.Clamp(padMax, a.usableMin, a.usableMax-a.panel)
		return lead + a.panel/2, 0
	}
	trail := geom.Clamp(padMin, a.usableMin+a.panel, a.usableMax)
	return trail - a.panel/2, 1
}

// computePlacement is the placement engine of the platter: pure geometry,
// identical inputs always yield an identical result.
func computePlacement(in placementInput) placementResult {
	usable := in.Bounds.InsetBy(in.SafeArea).Inset(in.Margin, in.Margin)

	if !in.HasSource {
		anchor := geom.Pt{X: 0.5, Y: 0.5}
		if in.FrozenAnchor != nil {
			anchor = *in.FrozenAnchor
		}
		c := usable.Mid()
		return placementResult{
			Pivot:  pivotFor(c, anchor, in.PanelSize),
			Anchor: anchor,
		}
	}

	xAxis := axis{
		alignMin: in.Align.X, alignMax: in.Align.MaxX(), alignMid: in.Align.MidX(),
		srcMid:    in.Source.MidX(),
		usableMin: usable.X, usableMax: usable.MaxX(),
		panel: in.PanelSize.W,
	}
	yAxis := axis{
		alignMin: in.Align.Y, alignMax: in.Align.MaxY(), alignMid: in.Align.MidY(),
		srcMid:    in.Source.MidY(),
		usableMin: usable.Y, usableMax: usable.MaxY(),
		panel: in.PanelSize.H,
	}

	var center, anchor geom.Pt
	if in.SizeClass == SizeClassCompact {
		center.Y, anchor.Y = crossPlace(yAxis, in.Alignment)
		center.X, anchor.X = mainPlace(xAxis, in.Padding)
	} else {
		center.X, anchor.X = crossPlace(xAxis, in.Alignment)
		center.Y, anchor.Y = mainPlace(yAxis, in.Padding)
	}

	// Keyboard avoidance is vertical in either size class: lift the panel so
	// its bottom clears the keyboard top by one margin. Skipped mid-dismissal
	// so the collapse does not chase a disappearing keyboard.
	if in.AvoidKeyboard && in.HasKeyboard && !in.Dismissing && !in.Keyboard.Empty() {
		bottom := center.Y + in.PanelSize.H/2
		if bottom > in.Keyboard.Y {
			center.Y = in.Keyboard.Y - in.Margin - in.PanelSize.H/2
		}
	}

	if in.FrozenAnchor != nil {
		anchor = *in.FrozenAnchor
	}
	return placementResult{Pivot: pivotFor(center, anchor, in.PanelSize), Anchor: anchor}
}

// pivotFor translates a geometric center into the anchored pivot position.
func pivotFor(center geom.Pt, anchor geom.Pt, s geom.Size) geom.Pt {
	return geom.Pt{
		X: center.X + (anchor.X-0.5)*s.W,
		Y: center.Y + (anchor.Y-0.5)*s.H,
	}
}
