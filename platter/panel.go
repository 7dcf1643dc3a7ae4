/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package platter

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"platterkit/geom"
)

// panel owns the platter chrome: cut-out shadow, rounded overlay-background
// rectangle and the content slot. Its two terminal visual states are
// expanded (progress 1: full frame, full chrome alpha) and collapsed
// (progress 0: frame scaled about the anchor, chrome transparent). Fyne has
// no free transform, so the anchored scale is emulated by reframing about
// the placement pivot every tick.
type panel struct {
	widget.BaseWidget

	app  Appearance
	anim animator

	shadow     *canvas.Image
	background *canvas.Rectangle
	content    fyne.CanvasObject

	// outgoing holds the previous content during a swap, pinned to the
	// top-leading corner at its old size so it does not perturb sizing.
	outgoing     fyne.CanvasObject
	outgoingSize fyne.Size

	place        placementResult
	expandedSize geom.Size
	progress     float32
	expanded     bool
	resizing     bool
	dark         bool
	cancel       func()
}

func newPanel(content fyne.CanvasObject, app Appearance, anim animator) *panel {
	p := &panel{app: app, anim: anim, content: content}
	p.shadow = canvas.NewImageFromImage(shadowTextureFor(app))
	p.shadow.FillMode = canvas.ImageFillStretch
	p.shadow.Translucency = 1
	p.background = canvas.NewRectangle(color.Transparent)
	p.background.CornerRadius = app.CornerRadius
	p.ExtendBaseWidget(p)
	return p
}

func (p *panel) CreateRenderer() fyne.WidgetRenderer { return &panelRenderer{p: p} }

// applyPlacement records the layout verdict for this pass and reframes the
// panel at its current transition progress. The expanded size is left alone
// while a swap resize animation owns it.
func (p *panel) applyPlacement(pl placementResult, expanded geom.Size) {
	p.place = pl
	if !p.resizing {
		p.expandedSize = expanded
	}
	p.reframe()
}

func (p *panel) collapsedSize() geom.Size {
	s := geom.Size{
		W: p.expandedSize.W * p.app.CollapsedScale,
		H: p.expandedSize.H * p.app.CollapsedScale,
	}
	if s.H < p.app.CollapsedMinHeight {
		s.H = p.app.CollapsedMinHeight
	}
	return s
}

// frameNow interpolates between the collapsed and expanded frames. Both are
// derived from the same pivot/anchor pair, so the anchored point stays
// screen-fixed throughout the transition.
func (p *panel) frameNow() geom.Rect {
	cs := p.collapsedSize()
	es := p.expandedSize
	t := p.progress
	return p.place.frameFor(geom.Size{
		W: cs.W + (es.W-cs.W)*t,
		H: cs.H + (es.H-cs.H)*t,
	})
}

func (p *panel) reframe() {
	f := p.frameNow()
	p.Move(fyne.NewPos(f.X, f.Y))
	p.Resize(fyne.NewSize(f.W, f.H))
	p.applyChrome()
}

func (p *panel) setProgress(v float32) {
	p.progress = v
	p.reframe()
}

func (p *panel) applyChrome() {
	a := p.progress
	p.shadow.Translucency = float64(1 - a*p.app.shadowAlpha(p.dark))
	p.background.FillColor = withAlpha(overlayBackgroundColor(), a)
	p.shadow.Refresh()
	p.background.Refresh()
}

// setDark tracks the theme variant. Shadow intensity updates live only
// while expanded; collapsing transitions pick the new value up anyway.
func (p *panel) setDark(dark bool) {
	if p.dark == dark {
		return
	}
	p.dark = dark
	if p.expanded {
		p.applyChrome()
	}
}

func (p *panel) expand(animated bool, done func()) {
	p.interrupt()
	p.expanded = true
	if p.content != nil {
		p.content.Show()
	}
	p.runTo(1, p.app.ExpandDuration, animated, done)
}

func (p *panel) collapse(animated bool, done func()) {
	p.interrupt()
	p.expanded = false
	// Content cannot fade in Fyne; it is hidden for the shrink.
	if p.content != nil {
		p.content.Hide()
	}
	p.runTo(0, p.app.ExpandDuration, animated, done)
}

func (p *panel) runTo(target float32, d time.Duration, animated bool, done func()) {
	start := p.progress
	an := p.anim
	if !animated {
		an = instantAnimator{}
	}
	finished := false
	cancel := an.Animate(d, func(v float32) {
		p.setProgress(start + (target-start)*v)
	}, func() {
		finished = true
		p.cancel = nil
		if done != nil {
			done()
		}
	})
	if !finished {
		p.cancel = cancel
	}
}

// animateResize grows or shrinks the expanded frame toward the new content
// size while the progress stays at its current value. Used by content swaps
// with the anchor frozen by the caller.
func (p *panel) animateResize(to geom.Size, animated bool, done func()) {
	p.interrupt()
	from := p.expandedSize
	p.resizing = true
	an := p.anim
	if !animated {
		an = instantAnimator{}
	}
	finished := false
	cancel := an.Animate(p.app.SwapDuration, func(v float32) {
		p.expandedSize = geom.Size{
			W: from.W + (to.W-from.W)*v,
			H: from.H + (to.H-from.H)*v,
		}
		p.reframe()
	}, func() {
		finished = true
		p.resizing = false
		p.cancel = nil
		if done != nil {
			done()
		}
	})
	if !finished {
		p.cancel = cancel
	}
}

// interrupt stops any in-flight transition without firing its settled
// callback.
func (p *panel) interrupt() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.resizing = false
}

// beginSwap installs new content, keeping the old pinned until endSwap.
func (p *panel) beginSwap(content fyne.CanvasObject) (old fyne.CanvasObject) {
	old = p.content
	if old != nil {
		p.outgoing = old
		p.outgoingSize = old.Size()
	}
	p.content = content
	if content != nil {
		content.Show()
	}
	p.Refresh()
	return old
}

// endSwap drops the pinned old content, unless a later swap already
// replaced it (rapid toggling).
func (p *panel) endSwap(old fyne.CanvasObject) {
	if p.outgoing == old {
		p.outgoing = nil
		p.Refresh()
	}
}

func (p *panel) contentMinSize() geom.Size {
	if p.content == nil {
		return geom.Size{}
	}
	ms := p.content.MinSize()
	return geom.Size{W: ms.Width, H: ms.Height}
}

type panelRenderer struct{ p *panel }

func (r *panelRenderer) Layout(size fyne.Size) {
	blur := r.p.app.ShadowBlur
	r.p.shadow.Move(fyne.NewPos(-blur, -blur))
	r.p.shadow.Resize(fyne.NewSize(size.Width+2*blur, size.Height+2*blur))
	r.p.background.Move(fyne.NewPos(0, 0))
	r.p.background.Resize(size)
	if r.p.outgoing != nil {
		r.p.outgoing.Move(fyne.NewPos(0, 0))
		r.p.outgoing.Resize(r.p.outgoingSize)
	}
	if r.p.content != nil {
		r.p.content.Move(fyne.NewPos(0, 0))
		r.p.content.Resize(size)
	}
}

func (r *panelRenderer) MinSize() fyne.Size {
	if r.p.content == nil {
		return fyne.NewSize(0, 0)
	}
	return r.p.content.MinSize()
}

func (r *panelRenderer) Refresh() {
	r.p.applyChrome()
}

func (r *panelRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.p.shadow, r.p.background}
	if r.p.outgoing != nil {
		objs = append(objs, r.p.outgoing)
	}
	if r.p.content != nil {
		objs = append(objs, r.p.content)
	}
	return objs
}

func (r *panelRenderer) Destroy() {}

func themeVariant() fyne.ThemeVariant {
	if app := fyne.CurrentApp(); app != nil {
		return app.Settings().ThemeVariant()
	}
	return theme.VariantLight
}

func overlayBackgroundColor() color.Color {
	if app := fyne.CurrentApp(); app != nil {
		return app.Settings().Theme().Color(theme.ColorNameOverlayBackground, app.Settings().ThemeVariant())
	}
	return theme.DefaultTheme().Color(theme.ColorNameOverlayBackground, theme.VariantLight)
}

func withAlpha(c color.Color, f float32) color.Color {
	if f <= 0 {
		return color.Transparent
	}
	r, g, b, a := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(float32(a>>8) * geom.Clamp01(f)),
	}
}
