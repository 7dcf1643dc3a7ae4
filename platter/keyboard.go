/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package platter

import (
	"sync"

	"platterkit/geom"
)

// The keyboard frame is process-wide, last-notification-wins state. The host
// environment feeds it from its keyboard show/hide notifications; placement
// reads it as a snapshot with no freshness guarantee beyond the most recent
// call. The mutex only matters on runtimes that deliver notifications off
// the UI thread.
var keyboardMu sync.Mutex
var keyboardFrame *geom.Rect

// SetKeyboardFrame records the on-screen keyboard rectangle in canvas
// coordinates. Presented platters configured to avoid the keyboard pick the
// new frame up on their next layout pass.
func SetKeyboardFrame(r geom.Rect) {
	keyboardMu.Lock()
	rc := r
	keyboardFrame = &rc
	keyboardMu.Unlock()
}

// ClearKeyboardFrame forgets the keyboard rectangle (keyboard hidden).
func ClearKeyboardFrame() {
	keyboardMu.Lock()
	keyboardFrame = nil
	keyboardMu.Unlock()
}

// currentKeyboardFrame snapshots the last-known frame.
func currentKeyboardFrame() (geom.Rect, bool) {
	keyboardMu.Lock()
	defer keyboardMu.Unlock()
	if keyboardFrame == nil {
		return geom.Rect{}, false
	}
	return *keyboardFrame, true
}
