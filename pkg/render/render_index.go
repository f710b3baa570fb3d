// Render HTML for the upload page with the recent run table.

package render

import (
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/yumyai/smashboard/pkg/model"
)

var index_page_template *template.Template

// init initializes the templates used for rendering the HTML page.
func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
	    <title>Smashboard</title>
	    <style>
        body { font-family: sans-serif; margin: 2rem; }
        table { border-collapse: collapse; }
        th, td { padding: 2px 8px; }
        .flash { background: #FFF3CD; border: 1px solid #D4B106; padding: 8px; margin-bottom: 1rem; }
        .hint { color: #666666; font-size: 0.85rem; }
   		</style>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name">Smashboard v0.1</h1>
			<p class="app-description">
				upload a nucleotide sequence and run antiSMASH secondary metabolite analysis on it.
			</p>
		</header>
		{{ if .Flash }}
			<div class="flash">{{ .Flash }}</div>
		{{ end }}
		{{template "uploadForm" .}}
		{{template "recentRuns" .}}
	</body>
	</html>`

	uploadForm := `
	{{define "uploadForm"}}
	<form id="uploadForm" action="/upload" method="POST" enctype="multipart/form-data">
		<div class="form-row">
			<label>Sequence file:
				<input type="file" name="file" accept=".fasta,.fa,.fna,.gb,.gbk,.txt,.ffn,.fas" required></input>
			</label>
		</div>
		<div class="form-row">
			<label>Gene finding:
				<select name="genefinding_tool" id="genefinding_tool">
					<option value="prodigal" selected>Prodigal</option>
					<option value="glimmerhmm">GlimmerHMM</option>
					<option value="none">None (annotated GenBank input)</option>
				</select>
			</label>
		</div>
		<div class="form-row">
			<input type="submit" value="Run antiSMASH"></input>
		</div>
		<p class="hint">Accepted extensions: .fasta, .fa, .fna, .gb, .gbk, .txt, .ffn, .fas</p>
	</form>
	{{end}}
	`

	recentRuns := `
	{{define "recentRuns"}}
	<h2>Recent runs</h2>
	{{ if .Runs }}
	<table border="1">
		<tr>
			<th>Run</th>
			<th>Status</th>
			<th>Progress</th>
			<th>Message</th>
			<th>Started</th>
			<th>Links</th>
		</tr>
		{{ range .Runs }}
		<tr>
			<td>{{ .Name }}</td>
			<td>{{ .Status }}</td>
			<td>{{ pct .Percent }}</td>
			<td>{{ .Message }}</td>
			<td>{{ reltime .CreatedAt }}</td>
			<td>
				[<a href="/progress/{{ .ID }}/{{ .Name }}">Progress</a>]
				{{ if eqs .Status "completed" }}
					[<a href="/results/{{ .Name }}">Results</a>]
					[<a href="/runs/{{ .Name }}/files">Files</a>]
				{{ end }}
			</td>
		</tr>
		{{ end }}
	</table>
	{{ else }}
	<p>No runs yet.</p>
	{{ end }}
	{{end}}
	`

	funcMap := template.FuncMap{
		"eqs": func(a model.RunStatus, b string) bool { return string(a) == b },
		"pct": func(p *int) string {
			if p == nil {
				return "-"
			}
			return strconv.Itoa(*p) + "%"
		},
		"reltime": func(t time.Time) string { return humanize.Time(t) },
	}

	index_page_template = template.New("index_page").Funcs(funcMap)
	index_page_template = template.Must(index_page_template.Parse(mainTmpl))
	index_page_template = template.Must(index_page_template.Parse(uploadForm))
	index_page_template = template.Must(index_page_template.Parse(recentRuns))
}

// Function to render the upload page
func RenderIndexPage(w io.Writer, flash string, runs []model.Run) error {

	data := struct {
		Flash string
		Runs  []model.Run
	}{
		Flash: flash,
		Runs:  runs,
	}

	return index_page_template.Execute(w, data)
}
