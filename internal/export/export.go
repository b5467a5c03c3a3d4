// Package export serializes an extraction result into the downloadable
// flat-text, CSV and XLSX representations. All formatters are pure:
// the same result yields the same bytes.
package export

import (
	"bytes"
	"encoding/csv"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/docgrab/docgrab/internal/extract"
)

// TextFilename is the download name for the flat-text export.
const TextFilename = "extracted_content.txt"

// File is a named, ready-to-download blob.
type File struct {
	Name string
	MIME string
	Data []byte
}

// FlatText renders the whole result as one plain-text document: a
// header, the full extracted text, then each table as a titled
// fixed-width grid. Every table appears here regardless of row count.
func FlatText(res extract.Result) string {
	var b strings.Builder
	b.WriteString("Extracted Text\n")
	b.WriteString(strings.Repeat("=", 20))
	b.WriteString("\n")
	b.WriteString(res.Text)
	for _, t := range res.Tables {
		b.WriteString("\n\n\n")
		b.WriteString(t.Title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", 20))
		b.WriteString("\n")
		b.WriteString(Grid(t.Data))
	}
	return b.String()
}

// TextFile wraps FlatText as a downloadable file.
func TextFile(res extract.Result) File {
	return File{Name: TextFilename, MIME: "text/plain", Data: []byte(FlatText(res))}
}

// Grid renders rows as a fixed-width, headerless grid with
// right-aligned cells. Jagged rows are padded per column. An empty
// table renders as "(no data)".
func Grid(rows [][]string) string {
	if len(rows) == 0 {
		return "(no data)"
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	widths := make([]int, cols)
	for _, r := range rows {
		for j, c := range r {
			if w := utf8.RuneCountInString(c); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		var line strings.Builder
		for j := 0; j < cols; j++ {
			cell := ""
			if j < len(r) {
				cell = r[j]
			}
			if j > 0 {
				line.WriteString("  ")
			}
			line.WriteString(strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell)))
			line.WriteString(cell)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
	}
	return b.String()
}

var nonFilenameChars = regexp.MustCompile(`[^a-z0-9_]+`)

// CSVFilename derives a download name from a table title: lower-cased,
// spaces to underscores, everything outside [a-z0-9_] stripped.
func CSVFilename(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "_")
	return nonFilenameChars.ReplaceAllString(s, "") + ".csv"
}

// CSVFiles returns one CSV per table that has a header row plus at
// least one data row. Smaller tables are skipped (a CSV is meaningless
// without a header/data split) but still appear in FlatText.
func CSVFiles(res extract.Result) []File {
	var out []File
	for _, t := range res.Tables {
		if len(t.Data) < 2 {
			continue
		}
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		for _, row := range t.Data {
			_ = w.Write(row)
		}
		w.Flush()
		out = append(out, File{
			Name: CSVFilename(t.Title),
			MIME: "text/csv",
			Data: buf.Bytes(),
		})
	}
	return out
}
