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
	"image/color"
	"io"
	"log/slog"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"platterkit/geom"
)

// fixedContent gives controller tests deterministic panel geometry.
type fixedContent struct {
	widget.BaseWidget
	min fyne.Size
}

func newFixedContent(w, h float32) *fixedContent {
	c := &fixedContent{min: fyne.NewSize(w, h)}
	c.ExtendBaseWidget(c)
	return c
}

func (c *fixedContent) MinSize() fyne.Size { return c.min }

func (c *fixedContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

type eventRecorder struct{ names []string }

func (r *eventRecorder) Event(name string, _ map[string]string) {
	r.names = append(r.names, name)
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestCanvas(w, h float32) fyne.Canvas {
	test.NewApp()
	cv := test.NewCanvas()
	cv.Resize(fyne.NewSize(w, h))
	return cv
}

// testConfig anchors at the same source rect the placement tests use.
func testConfig(cv fyne.Canvas) presentConfig {
	src := geom.R(100, 40, 100, 20)
	return presentConfig{Canvas: cv, SourceRect: &src}
}

func presentFixed(t *testing.T, anim animator, onDismiss func()) (*controller, fyne.Canvas) {
	t.Helper()
	cv := newTestCanvas(400, 800)
	c := newController(DefaultAppearance(), anim, newPassThroughSet(), quietLogger())
	if err := c.present(newFixedContent(300, 200), testConfig(cv), true, onDismiss); err != nil {
		t.Fatalf("present: %v", err)
	}
	return c, cv
}

func TestPresentShowsOverlay(t *testing.T) {
	c, cv := presentFixed(t, instantAnimator{}, nil)

	if !c.isPresented() || c.phase != phasePresented {
		t.Fatalf("phase = %v, want presented", c.phase)
	}
	if n := len(cv.Overlays().List()); n != 1 {
		t.Fatalf("overlay count = %d, want 1", n)
	}
	// Leading-edge candidate center 250 is clamped to 234 inside the usable
	// bounds, so the panel starts at x=84; below the source with padding.
	if pos := c.panel.Position(); !near(pos.X, 84) || !near(pos.Y, 68) {
		t.Fatalf("panel origin = %v, want (84,68)", pos)
	}
	if sz := c.panel.Size(); !near(sz.Width, 300) || !near(sz.Height, 200) {
		t.Fatalf("panel size = %v, want (300,200)", sz)
	}
	if c.panel.progress != 1 {
		t.Fatalf("progress = %v, want 1", c.panel.progress)
	}
}

func TestPresentResolvesCanvasFromSource(t *testing.T) {
	test.NewApp()
	source := widget.NewButton("anchor", nil)
	w := test.NewWindow(source)
	defer w.Close()
	w.Resize(fyne.NewSize(400, 800))

	c := newController(DefaultAppearance(), instantAnimator{}, newPassThroughSet(), quietLogger())
	if err := c.present(newFixedContent(100, 80), presentConfig{Source: source}, true, nil); err != nil {
		t.Fatalf("present: %v", err)
	}
	if c.canvas != w.Canvas() {
		t.Fatal("canvas was not resolved through the driver from the source")
	}
	if n := len(w.Canvas().Overlays().List()); n != 1 {
		t.Fatalf("overlay count = %d, want 1", n)
	}
}

func TestPresentWithoutCanvasFails(t *testing.T) {
	dismissed := 0
	c := newController(DefaultAppearance(), instantAnimator{}, newPassThroughSet(), quietLogger())
	err := c.present(newFixedContent(100, 100), presentConfig{}, true, func() { dismissed++ })
	if !errors.Is(err, ErrNoCanvas) {
		t.Fatalf("err = %v, want ErrNoCanvas", err)
	}
	if dismissed != 1 {
		t.Fatalf("dismiss callbacks = %d, want 1", dismissed)
	}
	if c.isPresented() {
		t.Fatal("controller claims presented after failed present")
	}
}

func TestDismissRemovesOverlayAndNotifiesOnce(t *testing.T) {
	dismissed := 0
	c, cv := presentFixed(t, instantAnimator{}, func() { dismissed++ })

	c.dismiss(true)
	if c.phase != phaseIdle {
		t.Fatalf("phase = %v, want idle", c.phase)
	}
	if n := len(cv.Overlays().List()); n != 0 {
		t.Fatalf("overlay count = %d, want 0", n)
	}
	if dismissed != 1 {
		t.Fatalf("dismiss callbacks = %d, want 1", dismissed)
	}

	c.dismiss(true)
	if dismissed != 1 {
		t.Fatalf("dismiss callbacks after repeat = %d, want 1", dismissed)
	}
}

func TestDismissWhenIdleIsNoOp(t *testing.T) {
	c := newController(DefaultAppearance(), instantAnimator{}, newPassThroughSet(), quietLogger())
	c.dismiss(true)
	if c.phase != phaseIdle {
		t.Fatalf("phase = %v, want idle", c.phase)
	}
}

func TestSwapReplacesContentInPlace(t *testing.T) {
	c, cv := presentFixed(t, instantAnimator{}, nil)

	next := newFixedContent(260, 150)
	if err := c.swap(next, true); err != nil {
		t.Fatalf("swap: %v", err)
	}

	if n := len(cv.Overlays().List()); n != 1 {
		t.Fatalf("overlay count = %d, want 1", n)
	}
	if c.presentedObject() != next {
		t.Fatal("presented object is not the swapped-in content")
	}
	if c.panel.outgoing != nil {
		t.Fatal("outgoing content survived the settled swap")
	}
	if c.frozenAnchor != nil {
		t.Fatal("anchor still frozen after swap settled")
	}
	if sz := c.panel.Size(); !near(sz.Width, 260) || !near(sz.Height, 150) {
		t.Fatalf("panel size = %v, want (260,150)", sz)
	}
	// Once the swap settles the anchor resumes tracking live geometry: the
	// 260-wide panel fits unclamped at x=100, putting the source midpoint
	// 50pt in, 50/260 of the width.
	if a := c.panel.place.Anchor; !near(a.X, 50.0/260) {
		t.Fatalf("cross anchor = %v, want %v", a.X, 50.0/260)
	}
}

func TestSwapDuringExpandStillPresents(t *testing.T) {
	m := &manualAnimator{}
	cv := newTestCanvas(400, 800)
	c := newController(DefaultAppearance(), m, newPassThroughSet(), quietLogger())
	if err := c.present(newFixedContent(300, 200), testConfig(cv), true, nil); err != nil {
		t.Fatalf("present: %v", err)
	}
	if c.phase != phasePresenting {
		t.Fatalf("phase = %v, want presenting", c.phase)
	}

	// Swapping while the expand is in flight must not strand the panel
	// collapsed: the expand restarts toward the new content size.
	next := newFixedContent(260, 150)
	if err := c.swap(next, true); err != nil {
		t.Fatalf("swap: %v", err)
	}
	m.settle()

	if c.phase != phasePresented {
		t.Fatalf("phase = %v, want presented", c.phase)
	}
	if c.panel.progress != 1 {
		t.Fatalf("progress = %v, want 1", c.panel.progress)
	}
	if sz := c.panel.Size(); !near(sz.Width, 260) || !near(sz.Height, 150) {
		t.Fatalf("panel size = %v, want (260,150)", sz)
	}
	if c.presentedObject() != next {
		t.Fatal("presented object is not the swapped-in content")
	}
	if c.panel.outgoing != nil {
		t.Fatal("outgoing content survived the mid-expand swap")
	}
}

func TestSwapWhenIdleErrors(t *testing.T) {
	c := newController(DefaultAppearance(), instantAnimator{}, newPassThroughSet(), quietLogger())
	if err := c.swap(newFixedContent(10, 10), true); err == nil {
		t.Fatal("swap on idle controller succeeded")
	}
}

func TestRepresentDuringDismissalCancelsCollapse(t *testing.T) {
	m := &manualAnimator{}
	dismissed := 0
	cv := newTestCanvas(400, 800)
	c := newController(DefaultAppearance(), m, newPassThroughSet(), quietLogger())
	content := newFixedContent(300, 200)
	cfg := testConfig(cv)

	if err := c.present(content, cfg, true, func() { dismissed++ }); err != nil {
		t.Fatalf("present: %v", err)
	}
	m.settle()
	if c.phase != phasePresented {
		t.Fatalf("phase = %v, want presented", c.phase)
	}

	c.dismiss(true)
	if c.phase != phaseDismissing {
		t.Fatalf("phase = %v, want dismissing", c.phase)
	}
	// The overlay stays in the stack until the collapse settles.
	if n := len(cv.Overlays().List()); n != 1 {
		t.Fatalf("overlay count mid-dismissal = %d, want 1", n)
	}

	if err := c.present(content, cfg, true, nil); err != nil {
		t.Fatalf("re-present: %v", err)
	}
	m.settle()
	if c.phase != phasePresented {
		t.Fatalf("phase after re-present = %v, want presented", c.phase)
	}
	if dismissed != 0 {
		t.Fatalf("aborted dismissal fired callback %d times", dismissed)
	}
	if n := len(cv.Overlays().List()); n != 1 {
		t.Fatalf("overlay count = %d, want 1", n)
	}

	c.dismiss(true)
	m.settle()
	if c.phase != phaseIdle || dismissed != 1 {
		t.Fatalf("final phase = %v, dismissed = %d; want idle, 1", c.phase, dismissed)
	}
}

func TestSizeClassFlipDismissesImmediately(t *testing.T) {
	dismissed := 0
	c, cv := presentFixed(t, instantAnimator{}, func() { dismissed++ })

	// 800x400 is compact; the flip tears the platter down without animation.
	c.relayout(fyne.NewSize(800, 400))
	if c.phase != phaseIdle {
		t.Fatalf("phase = %v, want idle", c.phase)
	}
	if n := len(cv.Overlays().List()); n != 0 {
		t.Fatalf("overlay count = %d, want 0", n)
	}
	if dismissed != 1 {
		t.Fatalf("dismiss callbacks = %d, want 1", dismissed)
	}
}

func TestEscapeKeyDismisses(t *testing.T) {
	dismissed := 0
	c, _ := presentFixed(t, instantAnimator{}, func() { dismissed++ })

	c.layer.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if c.phase != phaseIdle || dismissed != 1 {
		t.Fatalf("phase = %v, dismissed = %d; want idle, 1", c.phase, dismissed)
	}
}

func TestOutsideTapDismisses(t *testing.T) {
	dismissed := 0
	c, _ := presentFixed(t, instantAnimator{}, func() { dismissed++ })
	layer := c.layer

	pos := fyne.NewPos(10, 700)
	layer.Tapped(&fyne.PointEvent{AbsolutePosition: pos, Position: pos})
	if c.phase != phaseIdle || dismissed != 1 {
		t.Fatalf("phase = %v, dismissed = %d; want idle, 1", c.phase, dismissed)
	}
}

func TestTapInsidePanelDoesNotDismiss(t *testing.T) {
	c, _ := presentFixed(t, instantAnimator{}, nil)

	pos := c.panel.Position().AddXY(5, 5)
	c.layer.Tapped(&fyne.PointEvent{AbsolutePosition: pos, Position: pos})
	if !c.isPresented() {
		t.Fatal("tap on panel chrome dismissed the platter")
	}
}

func TestPassThroughTapForwardsWithoutDismissing(t *testing.T) {
	cv := newTestCanvas(400, 800)
	taps := 0
	button := widget.NewButton("toggle", func() { taps++ })
	cv.SetContent(button)

	pt := newPassThroughSet()
	pt.Add(button)
	c := newController(DefaultAppearance(), instantAnimator{}, pt, quietLogger())
	if err := c.present(newFixedContent(300, 200), testConfig(cv), true, nil); err != nil {
		t.Fatalf("present: %v", err)
	}

	pos := fyne.NewPos(200, 700) // over the button, outside the panel
	c.layer.Tapped(&fyne.PointEvent{AbsolutePosition: pos, Position: pos})
	if taps != 1 {
		t.Fatalf("forwarded taps = %d, want 1", taps)
	}
	if !c.isPresented() {
		t.Fatal("pass-through tap dismissed the platter")
	}
}

func TestKeyboardAvoidanceLiftsPanel(t *testing.T) {
	SetKeyboardFrame(geom.R(0, 600, 400, 200))
	defer ClearKeyboardFrame()

	cv := newTestCanvas(400, 800)
	c := newController(DefaultAppearance(), instantAnimator{}, newPassThroughSet(), quietLogger())
	src := geom.R(100, 500, 100, 20)
	cfg := presentConfig{Canvas: cv, SourceRect: &src, AvoidKeyboard: true}
	if err := c.present(newFixedContent(300, 200), cfg, true, nil); err != nil {
		t.Fatalf("present: %v", err)
	}

	bottom := c.panel.Position().Y + c.panel.Size().Height
	if !near(bottom, 584) { // keyboard top 600 minus the screen margin
		t.Fatalf("panel bottom = %v, want 584", bottom)
	}
}

func TestLifecycleEventsReachSink(t *testing.T) {
	rec := &eventRecorder{}
	cv := newTestCanvas(400, 800)
	c := newController(DefaultAppearance(), instantAnimator{}, newPassThroughSet(), quietLogger())
	c.sink = rec

	if err := c.present(newFixedContent(300, 200), testConfig(cv), true, nil); err != nil {
		t.Fatalf("present: %v", err)
	}
	if err := c.swap(newFixedContent(200, 100), true); err != nil {
		t.Fatalf("swap: %v", err)
	}
	c.dismiss(true)

	want := []string{"platter.present", "platter.swap", "platter.dismiss"}
	if len(rec.names) != len(want) {
		t.Fatalf("events = %v, want %v", rec.names, want)
	}
	for i := range want {
		if rec.names[i] != want[i] {
			t.Fatalf("events = %v, want %v", rec.names, want)
		}
	}
}
