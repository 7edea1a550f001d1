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

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidConfigFile marks a configuration file that is not valid JSON for
// the destination type.
var ErrInvalidConfigFile = errors.New("invalid configuration file")

// FileConfigLoader loads configuration from a local JSON file.
type FileConfigLoader struct{}

// Load implements ConfigLoader. Fields absent from the file keep the values
// already in dst. Parse failures carry the line and column of the fault.
func (*FileConfigLoader) Load(_ context.Context, path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w %s: file is empty", ErrInvalidConfigFile, path)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fileError(path, data, err)
	}

	return nil
}

func fileError(path string, data []byte, err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &syntaxErr):
		line, col := lineColumn(data, syntaxErr.Offset)

		return fmt.Errorf("%w %s:%d:%d: %w", ErrInvalidConfigFile, path, line, col, err)
	case errors.As(err, &typeErr):
		line, col := lineColumn(data, typeErr.Offset)

		return fmt.Errorf("%w %s:%d:%d: field %q: %w", ErrInvalidConfigFile, path, line, col, typeErr.Field, err)
	default:
		return fmt.Errorf("%w %s: %w", ErrInvalidConfigFile, path, err)
	}
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}

	prefix := data[:offset]
	line = bytes.Count(prefix, []byte("\n")) + 1
	col = len(prefix) - bytes.LastIndexByte(prefix, '\n')

	return line, col
}
