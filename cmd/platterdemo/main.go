/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"platterkit/internal/config"
	"platterkit/internal/crash"
	applog "platterkit/internal/log"
	"platterkit/internal/telemetry"
	"platterkit/internal/ui"
	"platterkit/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})

	teleCfg := telemetry.FromEnv()
	teleCfg.OptIn = teleCfg.OptIn || cfg.General.TelemetryOptIn
	tele := telemetry.New(teleCfg)
	defer tele.Close()
	defer crash.Recover(tele, nil)

	root := &cobra.Command{
		Use:          "platterdemo",
		Short:        "Demo application for the platterkit overlay panel library",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(cfg, tele)
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("platterdemo", version.String())
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
