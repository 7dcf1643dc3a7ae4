/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version carries build identification, overridable at link time:
//
//	-ldflags "-X platterkit/internal/version.Version=1.2.3 -X platterkit/internal/version.Commit=abc123"
package version

import "strings"

var (
	Version = "0.1.0-dev"
	Commit  = ""
	Date    = ""
)

// String renders the version with commit and build date when present.
func String() string {
	b := strings.Builder{}
	b.WriteString(Version)
	if Commit != "" {
		b.WriteString("+")
		b.WriteString(Commit)
	}
	if Date != "" {
		b.WriteString(" (")
		b.WriteString(Date)
		b.WriteString(")")
	}
	return b.String()
}
