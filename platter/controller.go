/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package platter

import (
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"platterkit/geom"
)

type phase int

const (
	phaseIdle phase = iota
	phasePresenting
	phasePresented
	phaseDismissing
)

func (p phase) String() string {
	switch p {
	case phasePresenting:
		return "presenting"
	case phasePresented:
		return "presented"
	case phaseDismissing:
		return "dismissing"
	default:
		return "idle"
	}
}

// ErrNoCanvas is returned when a presentation cannot locate a canvas to
// host its overlay, either explicitly or via the source object.
var ErrNoCanvas = errors.New("platter: no canvas for presentation")

// EventSink receives lifecycle events. The telemetry client satisfies it;
// tests plug in recorders.
type EventSink interface {
	Event(name string, props map[string]string)
}

// presentConfig is the per-presentation snapshot the controller works from.
type presentConfig struct {
	Source     fyne.CanvasObject
	SourceRect *geom.Rect
	AlignObj   fyne.CanvasObject
	AlignRect  *geom.Rect

	Alignment     Alignment
	AvoidKeyboard bool
	SafeArea      geom.Insets
	Canvas        fyne.Canvas
}

// controller drives one platter through its lifecycle:
//
//	idle -> presenting -> presented -> dismissing -> idle
//
// Every transition is interruptible; an interrupted transition never fires
// its settled callback, so stale teardowns cannot run. All methods must be
// called from the UI goroutine, like any other Fyne widget mutation.
type controller struct {
	log  *slog.Logger
	sink EventSink
	anim animator
	app  Appearance

	passThrough *passThroughSet

	canvas fyne.Canvas
	layer  *overlayLayer
	panel  *panel

	phase   phase
	cfg     presentConfig
	content fyne.CanvasObject

	onDismiss       func()
	dismissNotified bool

	swapGen      int
	frozenAnchor *geom.Pt
	sizeClass    SizeClass
}

func newController(app Appearance, anim animator, pt *passThroughSet, log *slog.Logger) *controller {
	if anim == nil {
		anim = fyneAnimator{}
	}
	if pt == nil {
		pt = newPassThroughSet()
	}
	if log == nil {
		log = slog.Default()
	}
	return &controller{log: log, anim: anim, app: app, passThrough: pt}
}

func (c *controller) isPresented() bool {
	return c.phase == phasePresenting || c.phase == phasePresented
}

func (c *controller) presentedObject() fyne.CanvasObject {
	if c.phase == phaseIdle {
		return nil
	}
	return c.content
}

// present puts content up on the resolved canvas. Calling it while a
// dismissal is collapsing cancels the collapse and grows back out; calling
// it while already presented behaves as a content swap.
func (c *controller) present(content fyne.CanvasObject, cfg presentConfig, animated bool, onDismiss func()) error {
	if content == nil {
		return errors.New("platter: nil content")
	}

	switch c.phase {
	case phaseDismissing:
		c.cfg = cfg
		if onDismiss != nil {
			c.onDismiss = onDismiss
		}
		if content != c.content {
			old := c.panel.beginSwap(content)
			c.panel.endSwap(old)
			c.content = content
		}
		c.phase = phasePresenting
		c.relayoutNow()
		c.panel.expand(animated, c.settlePresented)
		c.emit("platter.present")
		return nil

	case phasePresenting, phasePresented:
		c.cfg = cfg
		if onDismiss != nil {
			c.onDismiss = onDismiss
		}
		if content != c.content {
			return c.swap(content, animated)
		}
		c.relayoutNow()
		return nil
	}

	cv, err := c.resolveCanvas(cfg)
	if err != nil {
		c.log.Warn("platter presentation failed", "err", err)
		c.onDismiss = onDismiss
		c.dismissNotified = false
		c.fireDismiss()
		return err
	}

	c.canvas = cv
	c.cfg = cfg
	c.content = content
	c.onDismiss = onDismiss
	c.dismissNotified = false
	c.phase = phasePresenting
	c.sizeClass = c.app.sizeClassFor(cv.Size().Width, cv.Size().Height)

	c.panel = newPanel(content, c.app, c.anim)
	c.panel.dark = themeVariant() == theme.VariantDark
	c.layer = newOverlayLayer(c.panel, c.passThrough)
	c.layer.requestDismiss = c.dismiss
	c.layer.relayout = c.relayout

	cv.Overlays().Add(c.layer)
	c.layer.Resize(cv.Size())
	c.relayout(cv.Size())
	// First frame renders collapsed at the anchor, then springs out.
	c.panel.setProgress(0)
	cv.Focus(c.layer)
	c.panel.expand(animated, c.settlePresented)
	c.emit("platter.present")
	return nil
}

func (c *controller) settlePresented() {
	if c.phase == phasePresenting {
		c.phase = phasePresented
	}
}

// swap replaces the presented content in place. The anchor fraction is
// frozen for the duration of the reflow so the anchored point stays
// screen-fixed, and a generation counter keeps rapidly toggled swaps from
// tearing down the wrong outgoing content.
func (c *controller) swap(content fyne.CanvasObject, animated bool) error {
	if c.phase == phaseIdle || c.panel == nil {
		return errors.New("platter: nothing presented")
	}
	if content == nil || content == c.content {
		return nil
	}
	if c.phase == phasePresenting {
		// The expand is still in flight. Install the new content immediately
		// and restart the expand toward its size; the anchored-resize dance
		// below would cancel the expand and strand the panel collapsed.
		old := c.panel.beginSwap(content)
		c.panel.endSwap(old)
		c.content = content
		c.relayoutNow()
		c.panel.expand(animated, c.settlePresented)
		c.emit("platter.swap")
		return nil
	}
	c.swapGen++
	gen := c.swapGen

	a := c.panel.place.Anchor
	c.frozenAnchor = &a
	old := c.panel.beginSwap(content)
	c.content = content

	ms := content.MinSize()
	c.panel.animateResize(geom.Size{W: ms.Width, H: ms.Height}, animated, func() {
		if gen != c.swapGen {
			return
		}
		c.panel.endSwap(old)
		c.frozenAnchor = nil
		c.relayoutNow()
	})
	c.emit("platter.swap")
	return nil
}

// dismiss collapses the platter and removes the overlay once the collapse
// settles. The overlay stays in the stack until then so a re-present can
// still interrupt it. No-op when nothing is up or already dismissing.
func (c *controller) dismiss(animated bool) {
	if c.phase == phaseIdle || c.phase == phaseDismissing {
		return
	}
	c.phase = phaseDismissing
	c.emit("platter.dismiss")
	c.panel.collapse(animated, c.teardown)
}

func (c *controller) teardown() {
	if c.canvas != nil && c.layer != nil {
		if c.canvas.Focused() == fyne.Focusable(c.layer) {
			c.canvas.Unfocus()
		}
		c.canvas.Overlays().Remove(c.layer)
	}
	c.phase = phaseIdle
	c.layer = nil
	c.panel = nil
	c.canvas = nil
	c.content = nil
	c.frozenAnchor = nil
	c.fireDismiss()
}

// fireDismiss notifies the owner exactly once per presentation, no matter
// how many teardown paths run.
func (c *controller) fireDismiss() {
	if c.dismissNotified {
		return
	}
	c.dismissNotified = true
	if c.onDismiss != nil {
		c.onDismiss()
	}
}

func (c *controller) resolveCanvas(cfg presentConfig) (fyne.Canvas, error) {
	if cfg.Canvas != nil {
		return cfg.Canvas, nil
	}
	if cfg.Source != nil {
		if app := fyne.CurrentApp(); app != nil {
			if cv := app.Driver().CanvasForObject(cfg.Source); cv != nil {
				return cv, nil
			}
		}
	}
	return nil, ErrNoCanvas
}

func (c *controller) relayoutNow() {
	if c.canvas != nil {
		c.relayout(c.canvas.Size())
	}
}

// relayout re-runs the placement engine against fresh geometry. A size
// class flip mid-presentation invalidates the layout wholesale; the platter
// is torn down immediately rather than animated across the flip.
func (c *controller) relayout(size fyne.Size) {
	if c.phase == phaseIdle || c.panel == nil {
		return
	}
	if cls := c.app.sizeClassFor(size.Width, size.Height); cls != c.sizeClass {
		c.sizeClass = cls
		c.log.Debug("size class changed, dismissing", "class", int(cls))
		c.dismiss(false)
		return
	}
	c.panel.setDark(themeVariant() == theme.VariantDark)
	in := c.placementInput(size)
	c.panel.applyPlacement(computePlacement(in), in.PanelSize)
}

func (c *controller) placementInput(size fyne.Size) placementInput {
	in := placementInput{
		Bounds:        geom.R(0, 0, size.Width, size.Height),
		SafeArea:      c.cfg.SafeArea,
		Margin:        c.app.ScreenMargin,
		Padding:       c.app.AlignmentPadding,
		PanelSize:     c.panel.contentMinSize(),
		Alignment:     c.cfg.Alignment,
		SizeClass:     c.sizeClass,
		AvoidKeyboard: c.cfg.AvoidKeyboard,
		Dismissing:    c.phase == phaseDismissing,
		FrozenAnchor:  c.frozenAnchor,
	}
	if src, ok := c.sourceFrame(); ok {
		in.Source = src
		in.HasSource = true
		in.Align = src
		if al, ok := c.alignFrame(); ok {
			in.Align = al
		}
	}
	if kb, ok := currentKeyboardFrame(); ok {
		in.Keyboard = kb
		in.HasKeyboard = true
	}
	return in
}

func (c *controller) sourceFrame() (geom.Rect, bool) {
	if c.cfg.SourceRect != nil {
		return *c.cfg.SourceRect, true
	}
	return objectFrame(c.cfg.Source)
}

func (c *controller) alignFrame() (geom.Rect, bool) {
	if c.cfg.AlignRect != nil {
		return *c.cfg.AlignRect, true
	}
	return objectFrame(c.cfg.AlignObj)
}

// objectFrame resolves an object's frame in canvas coordinates. A hidden or
// detached source degrades to "no source", which centers the panel.
func objectFrame(o fyne.CanvasObject) (geom.Rect, bool) {
	if o == nil || !o.Visible() {
		return geom.Rect{}, false
	}
	app := fyne.CurrentApp()
	if app == nil {
		return geom.Rect{}, false
	}
	pos := app.Driver().AbsolutePositionForObject(o)
	sz := o.Size()
	return geom.R(pos.X, pos.Y, sz.Width, sz.Height), true
}

func (c *controller) emit(name string) {
	c.log.Debug(name, "phase", c.phase.String())
	if c.sink != nil {
		c.sink.Event(name, map[string]string{"phase": c.phase.String()})
	}
}
