/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderTable writes the summary as a markdown table for terminal output.
// Cell values match the TSV exactly; only the framing differs.
func RenderTable(w io.Writer, s *Summary) {
	headers := append(append([]string{"Date"}, s.Models...), "# case")
	table := newScoreTable(w, headers)

	for _, month := range s.Months {
		row := []string{month}
		for _, model := range s.Models {
			row = append(row, fmt.Sprintf("%.4f", s.Monthly[month][model]))
		}
		row = append(row, fmt.Sprintf("%d", s.CaseCounts[month]))
		_ = table.Append(row)
	}

	overall := []string{"Overall"}
	for _, model := range s.Models {
		overall = append(overall, fmt.Sprintf("%.4f", s.Overall[model]))
	}
	overall = append(overall, fmt.Sprintf("%d", s.TotalCases))
	_ = table.Append(overall)

	_ = table.Render()
}

// newScoreTable builds the markdown score table. Model names double as
// column headers, so auto-formatting and wrapping stay off to keep them
// copy-pasteable back into result filenames.
func newScoreTable(w io.Writer, headers []string) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row:      tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			MaxWidth: 120,
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
