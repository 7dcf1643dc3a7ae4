/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package platter

import (
	"time"

	"fyne.io/fyne/v2"
)

// animator runs one transition at a time. Animate drives tick from 0 to 1
// over the duration and calls done exactly once when the transition settles.
// The returned cancel interrupts ticking; a cancelled transition never calls
// done, which is what lets an interruption suppress teardown that was queued
// behind the animation.
type animator interface {
	Animate(d time.Duration, tick func(float32), done func()) (cancel func())
}

// fyneAnimator schedules transitions on Fyne's animation loop with an
// ease-out curve, so completion callbacks run on the same single UI thread
// that started them.
type fyneAnimator struct{}

func (fyneAnimator) Animate(d time.Duration, tick func(float32), done func()) func() {
	settled := false
	anim := fyne.NewAnimation(d, func(v float32) {
		if settled {
			return
		}
		tick(v)
		if v >= 1 {
			settled = true
			if done != nil {
				done()
			}
		}
	})
	anim.Curve = fyne.AnimationEaseOut
	anim.Start()
	return func() {
		if settled {
			return
		}
		settled = true
		anim.Stop()
	}
}

// instantAnimator applies the final state synchronously. Used for
// animated=false paths and by tests that need deterministic settlement.
type instantAnimator struct{}

func (instantAnimator) Animate(_ time.Duration, tick func(float32), done func()) func() {
	tick(1)
	if done != nil {
		done()
	}
	return func() {}
}
