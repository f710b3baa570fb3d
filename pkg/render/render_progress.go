// Render HTML for the live progress page. The page carries the run id in a
// data attribute and polls the JSON progress API by itself.

package render

import (
	"html/template"
	"io"

	"github.com/yumyai/smashboard/logger"
	"go.uber.org/zap"
)

var progress_page_template *template.Template

// init initializes the templates used for rendering the progress page.
func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
	    <title>Run progress: {{ .RunName }}</title>
	    <style>
        body { font-family: sans-serif; margin: 2rem; }
        .bar-track { width: 60%; background: #EEEEEE; border: 1px solid #999999; }
        .bar-fill { height: 24px; width: 0%; background: #4CAF50; color: white; text-align: center; line-height: 24px; }
        .bar-fill.error { background: #F03B20; }
        #message { color: #333333; }
   		</style>
	</head>
	<body data-run-id="{{ .RunID }}" data-run-name="{{ .RunName }}">
		<h1>Running antiSMASH: {{ .RunName }}</h1>
		<div class="bar-track"><div class="bar-fill" id="bar">0%</div></div>
		<p><strong>Step:</strong> <span id="step">starting</span></p>
		<p id="message">Waiting for the first status update...</p>
		<p><a href="/">Back to upload page</a></p>
		<script>
		var runID = document.body.dataset.runId;
		var runName = document.body.dataset.runName;

		function poll() {
			fetch("/api/progress/" + runID)
				.then(function (resp) { return resp.json(); })
				.then(function (data) {
					var bar = document.getElementById("bar");
					document.getElementById("step").textContent = data.step;
					document.getElementById("message").textContent = data.message || "";
					if (data.percentage !== null && data.percentage !== undefined) {
						bar.style.width = data.percentage + "%";
						bar.textContent = data.percentage + "%";
					}
					if (data.step === "completed") {
						window.location.href = "/results/" + runName;
						return;
					}
					if (data.step === "error") {
						bar.classList.add("error");
						return;
					}
					setTimeout(poll, 2000);
				})
				.catch(function () { setTimeout(poll, 2000); });
		}
		poll();
		</script>
	</body>
	</html>`

	progress_page_template = template.New("progress_page")
	progress_page_template = template.Must(progress_page_template.Parse(mainTmpl))
}

// Function to render the progress page
func RenderProgressPage(w io.Writer, run_id string, run_name string) error {

	logger.Info("Rendering progress page", zap.String("run_id", run_id), zap.String("run_name", run_name))

	data := struct {
		RunID   string
		RunName string
	}{
		RunID:   run_id,
		RunName: run_name,
	}

	return progress_page_template.Execute(w, data)
}
