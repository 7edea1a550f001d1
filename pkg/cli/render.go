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

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carverauto/dipstick/pkg/generations"
	"github.com/carverauto/dipstick/pkg/hostinfo"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	noneText      = "none"
	currentMarker = "*"
	bootedSuffix  = " (booted)"
)

type detailField struct {
	label string
	value string
}

// detailFields lists what the detail page shows for a generation.
func detailFields(g generations.Generation) []detailField {
	return []detailField{
		{label: "Date", value: g.Date},
		{label: "NixOS version", value: g.SystemVersion},
		{label: "Linux kernel version", value: g.KernelVersion},
		{label: "Configuration revision", value: orNone(g.ConfigurationRevision)},
		{label: "Specialisations", value: orNone(strings.Join(g.Specializations, ", "))},
		{label: "Current", value: yesNo(g.Current)},
	}
}

func labelWidth(fields []detailField) int {
	width := 0

	for _, f := range fields {
		if len(f.label) > width {
			width = len(f.label)
		}
	}

	return width + 1
}

func orNone(s string) string {
	if s == "" {
		return noneText
	}

	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

// summary is a one-line description used when a generation has no revision
// to copy.
func summary(g generations.Generation) string {
	return fmt.Sprintf("%s (%s, NixOS %s, Linux %s)", g.Title(), g.Date, g.SystemVersion, g.KernelVersion)
}

// RenderDetail writes the plain-text detail page of g.
func RenderDetail(w io.Writer, g generations.Generation) error {
	var b strings.Builder

	b.WriteString(g.Title())
	b.WriteString("\n")

	fields := detailFields(g)
	width := labelWidth(fields)

	for _, f := range fields {
		fmt.Fprintf(&b, "  %-*s %s\n", width, f.label+":", f.value)
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// RenderJSON writes v as indented JSON using the inventory field names.
func RenderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// RenderTable writes gens as a table. When host is set, a header line names
// the host and kernels matching the booted kernel are marked.
func RenderTable(w io.Writer, gens []generations.Generation, host *hostinfo.Info) error {
	st := newStyles()

	var b strings.Builder

	if host != nil {
		fmt.Fprintf(&b, "%s %s, booted kernel %s\n",
			st.label.Render("Host"), host.Hostname, orNone(host.KernelVersion))
	}

	if len(gens) == 0 {
		b.WriteString("No generations found.\n")

		_, err := io.WriteString(w, b.String())

		return err
	}

	rows := make([][]string, 0, len(gens))

	for _, g := range gens {
		kernel := g.KernelVersion
		if host.RunsKernel(kernel) {
			kernel += bootedSuffix
		}

		current := ""
		if g.Current {
			current = currentMarker
		}

		rows = append(rows, []string{
			strconv.FormatUint(g.ID, 10),
			g.Date,
			g.SystemVersion,
			kernel,
			orNone(g.ConfigurationRevision),
			orNone(strings.Join(g.Specializations, ", ")),
			current,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.help).
		Headers("GENERATION", "DATE", "NIXOS", "KERNEL", "REVISION", "SPECIALISATIONS", "CURRENT").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case row >= 0 && row < len(gens) && gens[row].Current:
				return st.current.Padding(0, 1)
			default:
				return st.cell
			}
		})

	b.WriteString(t.String())
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())

	return err
}

// Hint suggests a remedy for a pipeline error, or returns "".
func Hint(err error) string {
	switch generations.KindOf(err) {
	case generations.KindLaunchFailed:
		return "is nixos-rebuild installed and on your PATH? dipstick only works on NixOS hosts"
	case generations.KindProcessFailed:
		return "nixos-rebuild exited with an error; its output above may explain why"
	case generations.KindEncoding:
		return "nixos-rebuild printed output that is not UTF-8 text"
	case generations.KindStructure:
		return "the installed nixos-rebuild may be too old to support list-generations --json"
	case generations.KindUnknown:
		return ""
	default:
		return ""
	}
}
