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

package generations

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindLaunchFailed means the inventory command could not be started.
	KindLaunchFailed
	// KindProcessFailed means the command ran but did not exit successfully.
	KindProcessFailed
	// KindEncoding means the command output is not valid UTF-8.
	KindEncoding
	// KindStructure means the output is not a well-formed generation list.
	KindStructure
)

func (k ErrorKind) String() string {
	switch k {
	case KindLaunchFailed:
		return "launch_failed"
	case KindProcessFailed:
		return "process_failed"
	case KindEncoding:
		return "encoding"
	case KindStructure:
		return "structure"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

var (
	ErrLaunchFailed  = errors.New("failed to launch generation inventory command")
	ErrProcessFailed = errors.New("generation inventory command failed")
	ErrEncoding      = errors.New("generation inventory output is not valid UTF-8")
	ErrStructure     = errors.New("malformed generation inventory")
)

func sentinelFor(k ErrorKind) error {
	switch k {
	case KindLaunchFailed:
		return ErrLaunchFailed
	case KindProcessFailed:
		return ErrProcessFailed
	case KindEncoding:
		return ErrEncoding
	case KindStructure:
		return ErrStructure
	case KindUnknown:
		return nil
	default:
		return nil
	}
}

func kindMessage(k ErrorKind) string {
	if sentinel := sentinelFor(k); sentinel != nil {
		return sentinel.Error()
	}

	return "generation inventory error"
}

// RetrievalError reports a failure to obtain output from the inventory command.
type RetrievalError struct {
	Kind     ErrorKind
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RetrievalError) Error() string {
	var b strings.Builder

	b.WriteString(kindMessage(e.Kind))
	fmt.Fprintf(&b, " (%s)", e.Command)

	if e.Kind == KindProcessFailed && e.ExitCode >= 0 {
		fmt.Fprintf(&b, ": exit status %d", e.ExitCode)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", e.Stderr)
	}

	return b.String()
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinel, so errors.Is(err, ErrProcessFailed) works.
func (e *RetrievalError) Is(target error) bool {
	return target != nil && target == sentinelFor(e.Kind)
}

// DecodeError reports output that could not be turned into generations.
// Offset is a byte offset into the output; Line and Column are 1-based and
// zero when unknown. Index is the element position, or -1 for document level
// failures.
type DecodeError struct {
	Kind   ErrorKind
	Offset int64
	Line   int
	Column int
	Index  int
	Field  string
	Msg    string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder

	b.WriteString(kindMessage(e.Kind))

	switch {
	case e.Line > 0:
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	case e.Kind == KindEncoding:
		fmt.Fprintf(&b, " at byte offset %d", e.Offset)
	}

	if e.Index >= 0 {
		fmt.Fprintf(&b, ": generation entry %d", e.Index)
	}

	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}

	if e.Msg != "" {
		fmt.Fprintf(&b, ": %s", e.Msg)
	}

	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target != nil && target == sentinelFor(e.Kind)
}

// KindOf returns the pipeline error kind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var rerr *RetrievalError
	if errors.As(err, &rerr) {
		return rerr.Kind
	}

	var derr *DecodeError
	if errors.As(err, &derr) {
		return derr.Kind
	}

	return KindUnknown
}
