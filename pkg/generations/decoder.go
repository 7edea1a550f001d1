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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	fieldGeneration      = "generation"
	fieldDate            = "date"
	fieldSystemVersion   = "nixosVersion"
	fieldKernelVersion   = "kernelVersion"
	fieldRevision        = "configurationRevision"
	fieldSpecializations = "specialisations"
	fieldCurrent         = "current"
)

const (
	kindString  = "string"
	kindNumber  = "number"
	kindBool    = "boolean"
	kindArray   = "array"
	kindObject  = "object"
	kindNull    = "null"
	kindInvalid = "invalid value"
)

// Decode converts the inventory command output into generations. The output
// must be UTF-8 JSON whose top level is an array of generation objects.
// Records keep the order of the document; unknown fields are ignored.
func Decode(data []byte) ([]Generation, error) {
	if off := invalidUTF8Offset(data); off >= 0 {
		return nil, &DecodeError{
			Kind:   KindEncoding,
			Offset: int64(off),
			Index:  -1,
			Msg:    fmt.Sprintf("invalid byte 0x%02x", data[off]),
		}
	}

	if err := json.Unmarshal(data, new(json.RawMessage)); err != nil {
		return nil, syntaxError(data, int64(len(data)), err)
	}

	elements, err := splitArray(data)
	if err != nil {
		return nil, err
	}

	gens := make([]Generation, 0, len(elements))

	for i, el := range elements {
		gen, err := decodeGeneration(data, i, el)
		if err != nil {
			return nil, err
		}

		gens = append(gens, gen)
	}

	return gens, nil
}

// invalidUTF8Offset returns the offset of the first invalid UTF-8 sequence,
// or -1 when data is valid.
func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}

	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}

		i += size
	}

	return -1
}

type element struct {
	offset int64
	raw    json.RawMessage
}

// splitArray checks the document is exactly one JSON array and returns its
// elements with their byte offsets. data must already be valid JSON.
func splitArray(data []byte) ([]element, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxError(data, dec.InputOffset(), err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, documentError(data, 0, fmt.Sprintf("expected an array of generations, got %s", tokenKind(tok)))
	}

	var elements []element

	for dec.More() {
		start := dec.InputOffset()

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, syntaxError(data, dec.InputOffset(), err)
		}

		elements = append(elements, element{
			offset: skipSeparators(data, start),
			raw:    raw,
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(data, dec.InputOffset(), err)
	}

	end := dec.InputOffset()

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, syntaxError(data, dec.InputOffset(), err)
		}

		return nil, documentError(data, skipSeparators(data, end), "unexpected data after the generation array")
	}

	return elements, nil
}

func decodeGeneration(data []byte, index int, el element) (Generation, error) {
	var gen Generation

	if kind := valueKind(el.raw); kind != kindObject {
		return gen, elementError(data, index, el.offset, "", "expected an object, got "+kind)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(el.raw, &fields); err != nil {
		return gen, elementError(data, index, el.offset, "", err.Error())
	}

	d := fieldDecoder{data: data, index: index, offset: el.offset, fields: fields}

	d.uint64(fieldGeneration, &gen.ID)
	d.string(fieldDate, &gen.Date)
	d.string(fieldSystemVersion, &gen.SystemVersion)
	d.string(fieldKernelVersion, &gen.KernelVersion)
	d.string(fieldRevision, &gen.ConfigurationRevision)
	d.strings(fieldSpecializations, &gen.Specializations)
	d.bool(fieldCurrent, &gen.Current)

	if d.err != nil {
		return Generation{}, d.err
	}

	return gen, nil
}

// fieldDecoder validates required fields one at a time and keeps the first
// failure.
type fieldDecoder struct {
	data   []byte
	index  int
	offset int64
	fields map[string]json.RawMessage
	err    error
}

func (d *fieldDecoder) lookup(name, want string) (json.RawMessage, bool) {
	if d.err != nil {
		return nil, false
	}

	raw, ok := d.fields[name]
	if !ok {
		d.err = elementError(d.data, d.index, d.offset, name, "missing required field")
		return nil, false
	}

	if got := valueKind(raw); got != want {
		d.err = elementError(d.data, d.index, d.offset, name, fmt.Sprintf("expected %s, got %s", want, got))
		return nil, false
	}

	return raw, true
}

func (d *fieldDecoder) unmarshal(name string, raw json.RawMessage, dst interface{}, want string) {
	if err := json.Unmarshal(raw, dst); err != nil {
		d.err = elementError(d.data, d.index, d.offset, name, fmt.Sprintf("expected %s, got %s", want, raw))
	}
}

func (d *fieldDecoder) uint64(name string, dst *uint64) {
	if raw, ok := d.lookup(name, kindNumber); ok {
		d.unmarshal(name, raw, dst, "a non-negative integer")
	}
}

func (d *fieldDecoder) string(name string, dst *string) {
	if raw, ok := d.lookup(name, kindString); ok {
		d.unmarshal(name, raw, dst, kindString)
	}
}

func (d *fieldDecoder) bool(name string, dst *bool) {
	if raw, ok := d.lookup(name, kindBool); ok {
		d.unmarshal(name, raw, dst, kindBool)
	}
}

func (d *fieldDecoder) strings(name string, dst *[]string) {
	raw, ok := d.lookup(name, kindArray)
	if !ok {
		return
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.err = elementError(d.data, d.index, d.offset, name, err.Error())
		return
	}

	out := make([]string, 0, len(items))

	for i, item := range items {
		if got := valueKind(item); got != kindString {
			d.err = elementError(d.data, d.index, d.offset, name,
				fmt.Sprintf("item %d: expected string, got %s", i, got))

			return
		}

		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			d.err = elementError(d.data, d.index, d.offset, name, fmt.Sprintf("item %d: %v", i, err))
			return
		}

		out = append(out, s)
	}

	*dst = out
}

// valueKind names the JSON kind of a raw value from its first byte.
func valueKind(raw json.RawMessage) string {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return kindInvalid
	}

	switch c := trimmed[0]; {
	case c == '"':
		return kindString
	case c == '{':
		return kindObject
	case c == '[':
		return kindArray
	case c == 't' || c == 'f':
		return kindBool
	case c == 'n':
		return kindNull
	case c == '-' || (c >= '0' && c <= '9'):
		return kindNumber
	default:
		return kindInvalid
	}
}

func tokenKind(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			return kindObject
		}

		return string(v)
	case string:
		return kindString
	case float64, json.Number:
		return kindNumber
	case bool:
		return kindBool
	case nil:
		return kindNull
	default:
		return kindInvalid
	}
}

func skipSeparators(data []byte, off int64) int64 {
	for off < int64(len(data)) {
		switch data[off] {
		case ' ', '\t', '\r', '\n', ',':
			off++
		default:
			return off
		}
	}

	return off
}

func syntaxError(data []byte, fallback int64, err error) *DecodeError {
	off := fallback

	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		off = serr.Offset
	}

	msg := err.Error()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		off = int64(len(data))
		msg = "unexpected end of input"
	}

	line, col := position(data, off)

	return &DecodeError{
		Kind:   KindStructure,
		Offset: off,
		Line:   line,
		Column: col,
		Index:  -1,
		Msg:    msg,
		Err:    err,
	}
}

func documentError(data []byte, off int64, msg string) *DecodeError {
	line, col := position(data, off)

	return &DecodeError{
		Kind:   KindStructure,
		Offset: off,
		Line:   line,
		Column: col,
		Index:  -1,
		Msg:    msg,
	}
}

func elementError(data []byte, index int, off int64, field, msg string) *DecodeError {
	line, col := position(data, off)

	return &DecodeError{
		Kind:   KindStructure,
		Offset: off,
		Line:   line,
		Column: col,
		Index:  index,
		Field:  field,
		Msg:    msg,
	}
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, off int64) (line, col int) {
	if off > int64(len(data)) {
		off = int64(len(data))
	}

	if off < 0 {
		off = 0
	}

	prefix := data[:off]
	line = bytes.Count(prefix, []byte{'\n'}) + 1
	col = int(off) - (bytes.LastIndexByte(prefix, '\n') + 1) + 1

	return line, col
}
