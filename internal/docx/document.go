package docx

import "encoding/xml"

// XML structures for the parts of word/document.xml the pipeline reads.
// Only local element names are matched; Word's w: namespace prefix is
// irrelevant to encoding/xml.

type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    bodyXML  `xml:"body"`
}

// bodyXML holds the top-level body elements. Paragraphs nested inside
// table cells are deliberately not collected here.
type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

type paragraphXML struct {
	Runs       []runXML       `xml:"r"`
	Hyperlinks []hyperlinkXML `xml:"hyperlink"`
}

type hyperlinkXML struct {
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Text []string `xml:"t"`
}

type tableXML struct {
	Rows []tableRowXML `xml:"tr"`
}

type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

type tableCellXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

// relationshipsXML represents word/_rels/document.xml.rels.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// text flattens a paragraph's run text. Hyperlink runs follow plain
// runs rather than interleaving in source order; for extraction
// purposes that is close enough.
func (p paragraphXML) text() string {
	var out string
	for _, r := range p.Runs {
		for _, t := range r.Text {
			out += t
		}
	}
	for _, h := range p.Hyperlinks {
		for _, r := range h.Runs {
			for _, t := range r.Text {
				out += t
			}
		}
	}
	return out
}
