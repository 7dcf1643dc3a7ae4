/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into crash report files plus an optional
// opt-in telemetry upload, then exits non-zero.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "platterkit/internal/log"
	"platterkit/internal/telemetry"
	"platterkit/internal/version"
)

// exitFn is swapped out in tests so Recover does not kill the test process.
var exitFn = os.Exit

// Recover captures a panic, logs it with the stack, writes a report file
// and uploads it when telemetry is opted in. onCrash, if non-nil, runs
// before exit for last-chance cleanup (tearing down presented overlays,
// flushing logs); a panic inside it is swallowed.
//
// Usage: defer crash.Recover(client, cleanup)
func Recover(client *telemetry.Client, onCrash func()) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(client, r, stack)
	if err != nil {
		l.Error("crash report write failed", slog.Any("err", err), slog.String("path", reportPath))
	}

	if onCrash != nil {
		func() {
			defer func() { _ = recover() }()
			onCrash()
		}()
	}

	fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

// reportDir is the directory crash reports land in; tests point it at a
// temporary directory.
var reportDir = os.TempDir

func writeReport(client *telemetry.Client, panicVal any, stack []byte) (string, error) {
	dir := reportDir()
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("platterkit-crash-%s.log", stamp))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "PlatterKit Crash Report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}

	// No-op unless the client exists and crash upload is opted in.
	client.UploadCrash(buf.Bytes())
	return path, nil
}
