// Package docx reads the parts of a Word (Office Open XML) document the
// extraction pipeline needs: body paragraphs, native tables, and
// embedded image parts referenced from the document relationships.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// Reader provides access to DOCX document content.
type Reader struct {
	zr   *zip.Reader
	doc  *documentXML
	rels []relationshipXML
}

// NewReader parses a DOCX byte stream.
func NewReader(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	r := &Reader{zr: zr}

	if err := r.parseDocument(); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	// Relationships are optional: a document with no images or links
	// may omit interesting entries entirely.
	if err := r.parseRelationships(); err != nil {
		r.rels = nil
	}
	return r, nil
}

func (r *Reader) parseDocument() error {
	raw, err := r.readPart("word/document.xml")
	if err != nil {
		return err
	}
	var doc documentXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	r.doc = &doc
	return nil
}

func (r *Reader) parseRelationships() error {
	raw, err := r.readPart("word/_rels/document.xml.rels")
	if err != nil {
		return err
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(raw, &rels); err != nil {
		return err
	}
	r.rels = rels.Relationships
	return nil
}

func (r *Reader) readPart(name string) ([]byte, error) {
	for _, f := range r.zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("missing part: %s", name)
}

// Paragraphs returns the text of every top-level body paragraph in
// document order.
func (r *Reader) Paragraphs() []string {
	out := make([]string, 0, len(r.doc.Body.Paragraphs))
	for _, p := range r.doc.Body.Paragraphs {
		out = append(out, p.text())
	}
	return out
}

// Tables returns the cell text of every top-level table in document
// order. Multi-paragraph cells are joined with newlines, the way Word
// presents them.
func (r *Reader) Tables() [][][]string {
	out := make([][][]string, 0, len(r.doc.Body.Tables))
	for _, tbl := range r.doc.Body.Tables {
		rows := make([][]string, 0, len(tbl.Rows))
		for _, tr := range tbl.Rows {
			row := make([]string, 0, len(tr.Cells))
			for _, tc := range tr.Cells {
				paras := make([]string, 0, len(tc.Paragraphs))
				for _, p := range tc.Paragraphs {
					paras = append(paras, p.text())
				}
				row = append(row, strings.Join(paras, "\n"))
			}
			rows = append(rows, row)
		}
		out = append(out, rows)
	}
	return out
}

// ImageRef points at one embedded image part.
type ImageRef struct {
	RelID  string
	Target string
	part   string
}

// ImageRefs returns the image relationships in the order their entries
// appear in word/_rels/document.xml.rels. That order is deterministic
// but not guaranteed to match the visual order of images in the
// document body.
func (r *Reader) ImageRefs() []ImageRef {
	var out []ImageRef
	for _, rel := range r.rels {
		if !strings.Contains(rel.Target, "image") {
			continue
		}
		out = append(out, ImageRef{
			RelID:  rel.ID,
			Target: rel.Target,
			part:   resolvePart(rel.Target),
		})
	}
	return out
}

// ImageData reads the raw bytes of an embedded image part.
func (r *Reader) ImageData(ref ImageRef) ([]byte, error) {
	return r.readPart(ref.part)
}

// resolvePart maps a relationship target to its part name in the
// archive. Targets are relative to word/ unless rooted.
func resolvePart(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("word", target)
}
