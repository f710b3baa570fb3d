// Render HTML for the raw output file listing of a run.

package render

import (
	"html/template"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/yumyai/smashboard/pkg/model"
)

var files_page_template *template.Template

// init initializes the templates used for rendering the file listing.
func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
	    <title>Output files: {{ .RunName }}</title>
	    <style>
        body { font-family: sans-serif; margin: 2rem; }
        table { border-collapse: collapse; }
        th, td { padding: 2px 8px; }
   		</style>
	</head>
	<body>
		<h1>Output files: {{ .RunName }}</h1>
		{{ if .Files }}
		<table border="1">
			<tr>
				<th>File</th>
				<th>Size</th>
				<th>Modified</th>
			</tr>
			{{ range .Files }}
			<tr>
				<td><a href="/download/{{ $.RunName }}/{{ .Path }}">{{ .Path }}</a></td>
				<td>{{ bytes .Size }}</td>
				<td>{{ reltime .ModTime }}</td>
			</tr>
			{{ end }}
		</table>
		{{ else }}
		<p>This run has no output files yet.</p>
		{{ end }}
		<p><a href="/results/{{ .RunName }}">Back to results</a></p>
	</body>
	</html>`

	funcMap := template.FuncMap{
		"bytes":   func(n int64) string { return humanize.Bytes(uint64(n)) },
		"reltime": func(t time.Time) string { return humanize.Time(t) },
	}

	files_page_template = template.New("files_page").Funcs(funcMap)
	files_page_template = template.Must(files_page_template.Parse(mainTmpl))
}

// Function to render the download listing for one run
func RenderRunFilesPage(w io.Writer, run_name string, files []model.RunFile) error {

	data := struct {
		RunName string
		Files   []model.RunFile
	}{
		RunName: run_name,
		Files:   files,
	}

	return files_page_template.Execute(w, data)
}
