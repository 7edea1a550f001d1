/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger_test

import (
	"github.com/carverauto/dipstick/pkg/logger"
)

func ExampleInit() {
	config := &logger.Config{
		Level:  "debug",
		Output: logger.OutputDiscard,
	}

	err := logger.Init(config)
	if err != nil {
		panic(err)
	}

	l := logger.GetLogger()
	l.Info().Str("component", "example").Msg("Logger initialized successfully")
}

func ExampleWithComponent() {
	componentLogger := logger.WithComponent("retriever")

	componentLogger.Info().
		Str("command", "nixos-rebuild list-generations --json").
		Int("count", 12).
		Msg("Generation inventory listed")
}
