// Package csvimport implements the CSV import pipeline: tokenizing raw text,
// suggesting a column-to-field mapping from headers, converting rows into
// validated candidate entries, and committing them against a store.
package csvimport

import (
	"log/slog"
	"strings"
)

// ParseResult holds the tokenized form of a CSV file. Rows are not padded or
// truncated to the header width; consumers must index defensively.
type ParseResult struct {
	Headers   []string
	Rows      [][]string
	TotalRows int
}

// IsEmpty reports whether the file contained no usable data rows.
func (r ParseResult) IsEmpty() bool {
	return len(r.Headers) == 0 || r.TotalRows == 0
}

// ParseCSV tokenizes raw CSV text. The first non-blank line is the header
// row; blank and whitespace-only lines are skipped.
//
// Quote handling is a simple toggle: a double quote flips the in-quotes state
// so commas inside quoted cells are preserved, but RFC 4180 doubled-quote
// escaping is not supported, and a quoted cell cannot span lines because line
// splitting happens first.
func ParseCSV(content string) ParseResult {
	var lines []string
	for _, line := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '\n' || r == '\r'
	}) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return ParseResult{}
	}

	result := ParseResult{
		Headers: parseLine(lines[0]),
	}
	for _, line := range lines[1:] {
		result.Rows = append(result.Rows, parseLine(line))
	}
	result.TotalRows = len(result.Rows)

	slog.Debug("Parsed CSV content",
		"columns", len(result.Headers),
		"rows", result.TotalRows)

	return result
}

// parseLine splits a single line into trimmed cells, honoring the quote
// toggle described on ParseCSV.
func parseLine(line string) []string {
	var cells []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	cells = append(cells, strings.TrimSpace(current.String()))

	return cells
}
