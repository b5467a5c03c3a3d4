package server

import (
	"html/template"
	"net/http"

	"github.com/docgrab/docgrab/internal/export"
	"github.com/docgrab/docgrab/internal/extract"
)

type csvLink struct {
	Index int
	Name  string
}

type indexData struct {
	Filename string
	Result   *extract.Result
	CSVs     []csvLink
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	res, name := s.snapshot()

	data := indexData{Filename: name, Result: res}
	if res != nil {
		// The CSV list skips tables with fewer than two rows, so link
		// indexes refer to the filtered list, not res.Tables.
		for i, f := range export.CSVFiles(*res) {
			data.CSVs = append(data.CSVs, csvLink{Index: i, Name: f.Name})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Error("server.index.render_failed", "error", err)
	}
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>File Content &amp; Table Extractor</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; margin: 1rem 0; }
td, th { border: 1px solid #999; padding: 0.3rem 0.6rem; }
pre { background: #f5f5f5; padding: 1rem; overflow-x: auto; }
.warning { color: #a15c00; }
</style>
</head>
<body>
<h1>File Content &amp; Table Extractor</h1>
<p>Upload an image, PDF, or Word document to extract its text and table data.</p>
<form action="/extract" method="post" enctype="multipart/form-data">
<input type="file" name="file" accept=".jpg,.jpeg,.png,.pdf,.docx" required>
<button type="submit">Extract Data</button>
</form>

{{if .Result}}
<hr>
<h2>Extracted Results{{if .Filename}} &mdash; {{.Filename}}{{end}}</h2>

{{range .Result.Warnings}}
<p class="warning">&#9888; {{.}}</p>
{{end}}

<h3>Extracted Text</h3>
<pre>{{.Result.Text}}</pre>

{{if .Result.Tables}}
<h3>Extracted Tables</h3>
{{range .Result.Tables}}
<h4>{{.Title}}</h4>
{{if .Data}}
<table>
{{range .Data}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
{{else}}
<p>Table is empty.</p>
{{end}}
{{end}}
{{else}}
<p>No tables were found in the file.</p>
{{end}}

<hr>
<h3>Download</h3>
<p><a href="/download/txt">Download all as TXT</a> &middot; <a href="/download/xlsx">Download workbook (XLSX)</a></p>
{{if .CSVs}}
<ul>
{{range .CSVs}}<li><a href="/download/csv/{{.Index}}">{{.Name}}</a></li>
{{end}}
</ul>
{{end}}
{{end}}
</body>
</html>
`))
