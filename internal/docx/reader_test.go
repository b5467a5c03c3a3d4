package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Value</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>alpha</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>line one</w:t></w:r></w:p><w:p><w:r><w:t>line two</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>After the table</w:t></w:r></w:p>
  </w:body>
</w:document>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image2.png"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

// buildDocx assembles an in-memory DOCX archive.
func buildDocx(t *testing.T, documentXML, relsXML string, media map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, data []byte) {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	write("[Content_Types].xml", []byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))
	write("word/document.xml", []byte(documentXML))
	if relsXML != "" {
		write("word/_rels/document.xml.rels", []byte(relsXML))
	}
	for name, data := range media {
		write(name, data)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReaderParagraphs(t *testing.T) {
	data := buildDocx(t, testDocumentXML, "", nil)
	r, err := NewReader(data)
	require.NoError(t, err)

	paras := r.Paragraphs()
	assert.Equal(t, []string{"First paragraph", "Second paragraph", "After the table"}, paras,
		"table cell paragraphs must not leak into body paragraphs")
}

func TestReaderTables(t *testing.T) {
	data := buildDocx(t, testDocumentXML, "", nil)
	r, err := NewReader(data)
	require.NoError(t, err)

	tables := r.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, [][]string{
		{"Name", "Value"},
		{"alpha", "line one\nline two"},
	}, tables[0])
}

func TestReaderImageRefs(t *testing.T) {
	media := map[string][]byte{
		"word/media/image1.png": []byte("png-one"),
		"word/media/image2.png": []byte("png-two"),
	}
	data := buildDocx(t, testDocumentXML, testRelsXML, media)
	r, err := NewReader(data)
	require.NoError(t, err)

	refs := r.ImageRefs()
	require.Len(t, refs, 2)
	// .rels file order, not rId order.
	assert.Equal(t, "rId3", refs[0].RelID)
	assert.Equal(t, "rId2", refs[1].RelID)

	first, err := r.ImageData(refs[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("png-two"), first)
}

func TestReaderMissingRelsIsFine(t *testing.T) {
	data := buildDocx(t, testDocumentXML, "", nil)
	r, err := NewReader(data)
	require.NoError(t, err)
	assert.Empty(t, r.ImageRefs())
}

func TestReaderRejectsNonZip(t *testing.T) {
	_, err := NewReader([]byte("definitely not a zip archive"))
	require.Error(t, err)
}

func TestReaderMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<Types/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = NewReader(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}
