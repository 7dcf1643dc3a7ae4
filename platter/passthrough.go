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

	"github.com/zyedidia/generic/mapset"
)

// passThroughSet tracks canvas objects that keep receiving taps while a
// platter is up instead of triggering its dismissal.
type passThroughSet struct {
	objects mapset.Set[fyne.CanvasObject]
}

func newPassThroughSet() *passThroughSet {
	return &passThroughSet{objects: mapset.New[fyne.CanvasObject]()}
}

func (s *passThroughSet) Add(o fyne.CanvasObject) {
	if o != nil {
		s.objects.Put(o)
	}
}

func (s *passThroughSet) Remove(o fyne.CanvasObject) {
	if o != nil {
		s.objects.Remove(o)
	}
}

func (s *passThroughSet) Contains(o fyne.CanvasObject) bool {
	return o != nil && s.objects.Has(o)
}

func (s *passThroughSet) Size() int { return s.objects.Size() }

// hit classifies an absolute canvas position against the configured
// objects. When it lands inside one, the object and the position translated
// into its local coordinates are returned so the tap can be forwarded.
func (s *passThroughSet) hit(pos fyne.Position) (fyne.CanvasObject, fyne.Position, bool) {
	app := fyne.CurrentApp()
	if app == nil {
		return nil, fyne.Position{}, false
	}
	drv := app.Driver()
	var found fyne.CanvasObject
	var local fyne.Position
	s.objects.Each(func(o fyne.CanvasObject) {
		if found != nil || !o.Visible() {
			return
		}
		abs := drv.AbsolutePositionForObject(o)
		sz := o.Size()
		if pos.X >= abs.X && pos.X < abs.X+sz.Width &&
			pos.Y >= abs.Y && pos.Y < abs.Y+sz.Height {
			found = o
			local = fyne.NewPos(pos.X-abs.X, pos.Y-abs.Y)
		}
	})
	return found, local, found != nil
}

// forwardTap replays a tap on a pass-through target that handles taps.
// Targets that do not implement fyne.Tappable simply absorb the touch.
func forwardTap(o fyne.CanvasObject, local, absolute fyne.Position) {
	if t, ok := o.(fyne.Tappable); ok {
		t.Tapped(&fyne.PointEvent{AbsolutePosition: absolute, Position: local})
	}
}
