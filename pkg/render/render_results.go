// Render HTML for the results page of a finished run.

package render

import (
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/yumyai/smashboard/logger"
	"github.com/yumyai/smashboard/pkg/model"
)

var results_page_template *template.Template

// init initializes the templates used for rendering the results page.
func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
	    <title>antiSMASH results: {{ .RunName }}</title>
	    <style>
        body { font-family: sans-serif; margin: 2rem; }
        table { border-collapse: collapse; }
        th, td { padding: 2px 8px; }
        .seq { font-family: monospace; }
   		</style>
	</head>
	<body>
		<h1>antiSMASH results: {{ .RunName }}</h1>
		{{template "runSummary" .}}
		{{template "clusterTable" .Clusters}}
		{{template "proteinTable" .Proteins}}
	</body>
	</html>`

	runSummary := `
	{{define "runSummary"}}
	<div>
		<p>Completed {{ reltime .CompletedAt }}.</p>
		{{ with .Input }}
			<p>Input: {{ .Records }} record(s), {{ comma .Residues }} residues ({{ .Format }}).</p>
		{{ end }}
		<p>{{ len .Clusters }} secondary metabolite region(s), {{ len .Proteins }} protein(s).</p>
		<p>[<a href="/runs/{{ .RunName }}/files">Raw output files</a>]</p>
	</div>
	{{end}}
	`

	clusterTable := `
	{{define "clusterTable"}}
	<h2>Secondary metabolite regions</h2>
	{{ if . }}
	<table border="1">
		<tr>
			<th>Region</th>
			<th>Type</th>
			<th>Location</th>
			<th>Size (bp)</th>
			<th>Biosynthetic</th>
			<th>Additional</th>
			<th>Transport</th>
			<th>Regulatory</th>
			<th>Resistance</th>
			<th>Other</th>
			<th>Genes</th>
		</tr>
		{{ range . }}
		<tr>
			<td>{{ .Region }}</td>
			<td>{{ .Type }}</td>
			<td>{{ .Location }}</td>
			<td>{{ comma .SizeBP }}</td>
			<td>{{ index .GeneCounts "biosynthetic" }}</td>
			<td>{{ index .GeneCounts "biosynthetic-additional" }}</td>
			<td>{{ index .GeneCounts "transport" }}</td>
			<td>{{ index .GeneCounts "regulatory" }}</td>
			<td>{{ index .GeneCounts "resistance" }}</td>
			<td>{{ index .GeneCounts "other" }}</td>
			<td>{{ join .Genes ", " }}</td>
		</tr>
		{{ end }}
	</table>
	{{ else }}
	<p>No secondary metabolite regions were detected.</p>
	{{ end }}
	{{end}}
	`

	proteinTable := `
	{{define "proteinTable"}}
	<h2>Proteins</h2>
	{{ if . }}
	<table border="1">
		<tr>
			<th>Record</th>
			<th>Gene</th>
			<th>Locus tag</th>
			<th>Product</th>
			<th>Length (aa)</th>
			<th>Location</th>
			<th>Kind</th>
			<th>Functions</th>
			<th>Domains</th>
			<th>Sequence</th>
		</tr>
		{{ range . }}
		<tr>
			<td>{{ .RecordID }}</td>
			<td>{{ .Gene }}</td>
			<td>{{ .LocusTag }}</td>
			<td>{{ .Product }}</td>
			<td>{{ .AALength }}</td>
			<td>{{ .Location }}</td>
			<td>{{ .GeneKind }}</td>
			<td>{{ join .GeneFunctions "; " }}</td>
			<td>{{ join .SecMetDomains "; " }}</td>
			<td class="seq" title="{{ .Translation }}">{{ prefix .Translation 60 }}</td>
		</tr>
		{{ end }}
	</table>
	{{ else }}
	<p>No proteins were found in the output.</p>
	{{ end }}
	{{end}}
	`

	funcMap := template.FuncMap{
		"comma":   func(n int) string { return humanize.Comma(int64(n)) },
		"reltime": func(t time.Time) string { return humanize.Time(t) },
		"join":    strings.Join,
		"prefix": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			return s[:n] + "..."
		},
	}

	results_page_template = template.New("results_page").Funcs(funcMap)
	results_page_template = template.Must(results_page_template.Parse(mainTmpl))
	results_page_template = template.Must(results_page_template.Parse(runSummary))
	results_page_template = template.Must(results_page_template.Parse(clusterTable))
	results_page_template = template.Must(results_page_template.Parse(proteinTable))
}

// Function to render protein and cluster tables for one run
func RenderResultsPage(w io.Writer, results *model.RunResults) error {

	logger.Info("Rendering results page",
		zap.String("run_name", results.RunName),
		zap.Int("proteins", len(results.Proteins)),
		zap.Int("clusters", len(results.Clusters)))

	return results_page_template.Execute(w, results)
}
