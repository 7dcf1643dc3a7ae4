/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package platter presents transient content in an anchored overlay panel.
// A platter grows out of its source control, floats above everything else
// on the canvas and collapses back into the source when dismissed by an
// outside tap, the Escape key or its owner.
package platter

import (
	"log/slog"

	"fyne.io/fyne/v2"

	"github.com/google/uuid"

	"platterkit/geom"
)

// Presentation is the one-platter-at-a-time facade. Configure the exported
// fields, then Present. Fields read at Present time; changing them while up
// takes effect on the next layout pass.
type Presentation struct {
	// Content is shown inside the panel, sized to its minimum size.
	Content fyne.CanvasObject
	// Source anchors the platter. Nil (and no SourceRect) centers it.
	Source fyne.CanvasObject
	// SourceRect overrides the source frame, in canvas coordinates.
	SourceRect *geom.Rect
	// AlignmentObject/AlignmentRect redirect edge alignment away from the
	// source; the open animation still originates at the source.
	AlignmentObject fyne.CanvasObject
	AlignmentRect   *geom.Rect

	Alignment      Alignment
	AvoidsKeyboard bool
	// SourcePassThrough keeps the source tappable while the platter is up,
	// so it can toggle the platter instead of dismissing it.
	SourcePassThrough bool
	// SafeArea insets the usable container bounds before the margin.
	SafeArea geom.Insets
	// Canvas hosts the overlay. Leave nil to resolve it from Source.
	Canvas fyne.Canvas

	// OnDismiss fires exactly once per presentation, after the collapse
	// settles and the overlay is gone. Also fires when Present fails.
	OnDismiss func()

	// Appearance tunes chrome and animation. Nil uses the defaults.
	Appearance *Appearance
	Logger     *slog.Logger

	id          string
	passThrough *passThroughSet
	ctrl        *controller
	anim        animator
	sink        EventSink
}

// NewPresentation prepares content anchored to source. Present puts it up.
func NewPresentation(content, source fyne.CanvasObject) *Presentation {
	return &Presentation{
		Content:     content,
		Source:      source,
		id:          uuid.NewString(),
		passThrough: newPassThroughSet(),
	}
}

// Show is the one-shot path: present content anchored to source with the
// default configuration. Returns nil when no canvas could host the platter.
func Show(content, source fyne.CanvasObject, onDismiss func()) *Presentation {
	p := NewPresentation(content, source)
	p.OnDismiss = onDismiss
	if err := p.Present(true); err != nil {
		return nil
	}
	return p
}

// ID identifies this presentation in logs and telemetry.
func (p *Presentation) ID() string { return p.id }

// AddPassThrough registers an object that keeps receiving taps while the
// platter is up instead of dismissing it.
func (p *Presentation) AddPassThrough(o fyne.CanvasObject) { p.passThrough.Add(o) }

func (p *Presentation) RemovePassThrough(o fyne.CanvasObject) { p.passThrough.Remove(o) }

// SetEventSink routes lifecycle events (present, swap, dismiss) to sink.
func (p *Presentation) SetEventSink(sink EventSink) {
	p.sink = sink
	if p.ctrl != nil {
		p.ctrl.sink = sink
	}
}

// Present puts the platter up, growing it out of the source. Calling it
// during a dismissal cancels the collapse and grows back out; calling it
// while presented swaps in the current Content.
func (p *Presentation) Present(animated bool) error {
	if p.SourcePassThrough && p.Source != nil {
		p.passThrough.Add(p.Source)
	}
	cfg := presentConfig{
		Source:        p.Source,
		SourceRect:    p.SourceRect,
		AlignObj:      p.AlignmentObject,
		AlignRect:     p.AlignmentRect,
		Alignment:     p.Alignment,
		AvoidKeyboard: p.AvoidsKeyboard,
		SafeArea:      p.SafeArea,
		Canvas:        p.Canvas,
	}
	return p.controller().present(p.Content, cfg, animated, p.notifyDismiss)
}

// SetContent swaps the presented content in place, reflowing the panel
// about its anchored point. When nothing is presented it only records the
// content for the next Present.
func (p *Presentation) SetContent(content fyne.CanvasObject, animated bool) error {
	p.Content = content
	if p.ctrl == nil || !p.ctrl.isPresented() {
		return nil
	}
	return p.ctrl.swap(content, animated)
}

// Dismiss collapses the platter back into its source. No-op when nothing is
// up or a dismissal is already in flight.
func (p *Presentation) Dismiss(animated bool) {
	if p.ctrl != nil {
		p.ctrl.dismiss(animated)
	}
}

func (p *Presentation) IsPresented() bool {
	return p.ctrl != nil && p.ctrl.isPresented()
}

// PresentedObject returns the content currently on screen, including while
// a transition is in flight, or nil when the platter is fully down.
func (p *Presentation) PresentedObject() fyne.CanvasObject {
	if p.ctrl == nil {
		return nil
	}
	return p.ctrl.presentedObject()
}

func (p *Presentation) notifyDismiss() {
	if p.OnDismiss != nil {
		p.OnDismiss()
	}
}

func (p *Presentation) controller() *controller {
	if p.ctrl == nil {
		app := DefaultAppearance()
		if p.Appearance != nil {
			app = *p.Appearance
		}
		logger := p.Logger
		if logger == nil {
			logger = slog.Default()
		}
		p.ctrl = newController(app, p.anim, p.passThrough, logger.With("presentation", p.id))
		p.ctrl.sink = p.sink
	}
	return p.ctrl
}
