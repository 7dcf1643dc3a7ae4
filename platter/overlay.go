/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package platter

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// overlayLayer fills the whole canvas while a platter is up. It hosts the
// panel, routes outside taps (dismiss or pass through) and listens for the
// Escape key. Tap handling runs on release, so a press alone never tears
// the platter down.
type overlayLayer struct {
	widget.BaseWidget

	panel       *panel
	passThrough *passThroughSet

	// requestDismiss and relayout are provided by the controller; the
	// layer itself holds no presentation state.
	requestDismiss func(animated bool)
	relayout       func(size fyne.Size)
}

var _ fyne.Tappable = (*overlayLayer)(nil)
var _ fyne.Focusable = (*overlayLayer)(nil)

func newOverlayLayer(p *panel, pt *passThroughSet) *overlayLayer {
	l := &overlayLayer{panel: p, passThrough: pt}
	l.ExtendBaseWidget(l)
	return l
}

func (l *overlayLayer) CreateRenderer() fyne.WidgetRenderer {
	return &overlayRenderer{l: l}
}

func (l *overlayLayer) Tapped(ev *fyne.PointEvent) {
	pos := ev.AbsolutePosition
	if l.insidePanel(pos) {
		return
	}
	if obj, local, ok := l.passThrough.hit(pos); ok {
		forwardTap(obj, local, pos)
		return
	}
	if l.requestDismiss != nil {
		l.requestDismiss(true)
	}
}

// insidePanel guards against taps landing on non-interactive panel chrome
// falling through to the layer and dismissing the platter.
func (l *overlayLayer) insidePanel(pos fyne.Position) bool {
	if l.panel == nil {
		return false
	}
	p := l.panel.Position()
	s := l.panel.Size()
	return pos.X >= p.X && pos.X < p.X+s.Width &&
		pos.Y >= p.Y && pos.Y < p.Y+s.Height
}

func (l *overlayLayer) TypedKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape && l.requestDismiss != nil {
		l.requestDismiss(true)
	}
}

func (l *overlayLayer) TypedRune(rune) {}
func (l *overlayLayer) FocusGained()   {}
func (l *overlayLayer) FocusLost()     {}

type overlayRenderer struct{ l *overlayLayer }

// Layout delegates to the controller so every canvas resize or refresh pass
// re-runs the placement engine against fresh geometry.
func (r *overlayRenderer) Layout(size fyne.Size) {
	if r.l.relayout != nil {
		r.l.relayout(size)
	}
}

func (r *overlayRenderer) MinSize() fyne.Size { return fyne.NewSize(0, 0) }

func (r *overlayRenderer) Refresh() {}

func (r *overlayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.l.panel}
}

func (r *overlayRenderer) Destroy() {}
