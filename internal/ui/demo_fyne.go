//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"platterkit/geom"
	"platterkit/internal/config"
	applog "platterkit/internal/log"
	"platterkit/internal/telemetry"
	"platterkit/platter"
)

// Run starts the demo window: a grid of source controls, each presenting a
// platter, plus toggles for keyboard simulation and content swapping.
func Run(cfg config.AppConfig, tele *telemetry.Client) error {
	l := applog.WithComponent("ui")
	l.Info("starting platter demo")

	a := app.NewWithID("io.platterkit.demo")
	w := a.NewWindow("PlatterKit Demo")
	w.Resize(fyne.NewSize(480, 720))

	appearance := platter.DefaultAppearance()
	if cfg.Platter.AppearancePreset != "" {
		loaded, err := platter.LoadAppearance(cfg.Platter.AppearancePreset)
		if err != nil {
			l.Warn("appearance preset rejected", slog.String("path", cfg.Platter.AppearancePreset), slog.Any("err", err))
		} else {
			appearance = loaded
		}
	}

	buildPresentation := func(content, source fyne.CanvasObject) *platter.Presentation {
		p := platter.NewPresentation(content, source)
		p.Appearance = &appearance
		p.AvoidsKeyboard = cfg.Platter.AvoidKeyboard
		p.Logger = applog.WithComponent("platter")
		p.SetEventSink(tele)
		return p
	}

	// Basic platter below a button.
	basicBtn := widget.NewButton("Show platter", nil)
	basic := buildPresentation(demoContent("Anchored platter", "Tap outside or press Escape to dismiss."), basicBtn)
	basicBtn.OnTapped = func() {
		if err := basic.Present(cfg.Platter.Animated); err != nil {
			l.Warn("present failed", slog.Any("err", err))
		}
	}

	// Toggling platter: the source stays tappable and flips the platter.
	var toggle *platter.Presentation
	toggleBtn := widget.NewButton("Toggle platter", nil)
	toggle = buildPresentation(demoContent("Pass-through source", "The source button stays live and toggles this platter."), toggleBtn)
	toggle.SourcePassThrough = true
	toggleBtn.OnTapped = func() {
		if toggle.IsPresented() {
			toggle.Dismiss(cfg.Platter.Animated)
			return
		}
		if err := toggle.Present(cfg.Platter.Animated); err != nil {
			l.Warn("present failed", slog.Any("err", err))
		}
	}

	// Swapping platter: replaces its content in place on each press.
	swapBtn := widget.NewButton("Swap content", nil)
	short := demoContent("Level one", "Press the source again for more.")
	long := demoContent("Level two", "The panel reflows about its anchored point,\nkeeping the arrow position fixed while it grows.")
	swap := buildPresentation(short, swapBtn)
	swap.SourcePassThrough = true
	showingLong := false
	swapBtn.OnTapped = func() {
		if !swap.IsPresented() {
			showingLong = false
			_ = swap.SetContent(short, false)
			if err := swap.Present(cfg.Platter.Animated); err != nil {
				l.Warn("present failed", slog.Any("err", err))
			}
			return
		}
		showingLong = !showingLong
		next := short
		if showingLong {
			next = long
		}
		if err := swap.SetContent(next, cfg.Platter.Animated); err != nil {
			l.Warn("swap failed", slog.Any("err", err))
		}
	}

	// Simulated software keyboard covering the bottom third of the canvas.
	kbCheck := widget.NewCheck("Simulate keyboard", func(on bool) {
		if !on {
			platter.ClearKeyboardFrame()
			return
		}
		size := w.Canvas().Size()
		platter.SetKeyboardFrame(geom.R(0, size.Height*2/3, size.Width, size.Height/3))
	})

	w.SetContent(container.NewVBox(
		widget.NewLabelWithStyle("PlatterKit", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		basicBtn,
		toggleBtn,
		swapBtn,
		kbCheck,
		layoutSpacer(),
	))

	w.ShowAndRun()
	return nil
}

func demoContent(title, body string) fyne.CanvasObject {
	t := widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	b := widget.NewLabel(body)
	b.Wrapping = fyne.TextWrapWord
	return container.NewVBox(t, b)
}

func layoutSpacer() fyne.CanvasObject {
	return widget.NewLabel("")
}
