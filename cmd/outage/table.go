package main

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// renderTable lays out a Markdown-style table padded by display width, so
// CJK text and emoji line up in a terminal.
func renderTable(header []string, rows [][]string) []string {
	widths := make([]int, len(header))
	measure := func(row []string) {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	line := func(row []string) string {
		var sb strings.Builder
		sb.WriteString("|")
		for i, w := range widths {
			content := ""
			if i < len(row) {
				content = row[i]
			}
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(content, w))
			sb.WriteString(" |")
		}
		return sb.String()
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, line(header))

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	out = append(out, line(sep))

	for _, row := range rows {
		out = append(out, line(row))
	}
	return out
}
