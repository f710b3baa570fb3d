package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/yumyai/smashboard/pkg/model"
)

// Fake docker for the success path. It finds the host directory mounted
// at /output plus the requested run name, drops a region file there the
// way antiSMASH would, and logs a few recognizable lines.
const dockerWritesOutput = `
host_out=""
outdir=""
prev=""
for a in "$@"; do
    if [ "$prev" = "-v" ]; then
        case "$a" in
            *:/output) host_out="${a%:/output}" ;;
        esac
    fi
    if [ "$prev" = "--output-dir" ]; then
        outdir="$a"
    fi
    prev="$a"
done
name="${outdir#/output/}"
mkdir -p "$host_out/$name"
cat > "$host_out/$name/contig.region001.gbk" <<'EOF'
LOCUS       UPLOADTEST              1200 bp    DNA     linear   BCT 01-JAN-2024
FEATURES             Location/Qualifiers
     region          1..1200
                     /region_number="1"
                     /product="lanthipeptide"
     CDS             100..700
                     /locus_tag="UP_00001"
                     /gene="lanA"
                     /product="lanthipeptide precursor"
                     /gene_kind="biosynthetic"
                     /translation="MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQAPILSRVGDGT"
//
EOF
echo "Reading sequence from input"
echo "Finding genes with prodigal"
echo "Writing results"
exit 0
`

// helper to plant a fake 'docker' executable that runs the given script body
func createFakeDocker(t *testing.T, dir, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake docker needs a POSIX shell")
	}
	path := filepath.Join(dir, "docker")
	content := "#!/usr/bin/env bash\n" + script
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write fake docker: %v", err)
	}
}

// prepend a directory to PATH for this process
func prependPath(t *testing.T, dir string) {
	t.Helper()
	old := os.Getenv("PATH")
	newPath := dir
	if old != "" {
		newPath = dir + string(os.PathListSeparator) + old
	}
	t.Setenv("PATH", newPath)
}

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func waitForTerminal(t *testing.T, app *AppContext, runID string) model.Run {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if run, ok := app.Runs.Get(runID); ok && run.Status.Terminal() {
			return run
		}
		time.Sleep(20 * time.Millisecond)
	}
	run, _ := app.Runs.Get(runID)
	t.Fatalf("run never reached a terminal state, last: %+v", run)
	return model.Run{}
}

func assertFlash(t *testing.T, app *AppContext, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	req := requestWithCookies(rr, "/")
	got := app.Flash.Pop(httptest.NewRecorder(), req)
	if !strings.Contains(got, want) {
		t.Fatalf("flash message %q does not contain %q", got, want)
	}
}

func TestUploadHandlerRunsToCompletion(t *testing.T) {
	app := newTestApp(t)

	bin := t.TempDir()
	createFakeDocker(t, bin, dockerWritesOutput)
	prependPath(t, bin)

	body, contentType := multipartUpload(t, "genome.fasta", ">contig1\nACGTACGTACGT\n",
		map[string]string{"genefinding_tool": "prodigal"})

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	app.UploadHandler(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rr.Code, rr.Body.String())
	}
	loc := rr.Header().Get("Location")
	if !strings.HasPrefix(loc, "/progress/") {
		t.Fatalf("unexpected redirect target %q", loc)
	}
	parts := strings.Split(strings.TrimPrefix(loc, "/progress/"), "/")
	if len(parts) != 2 {
		t.Fatalf("redirect target %q should carry run id and run name", loc)
	}
	runID, runName := parts[0], parts[1]

	run := waitForTerminal(t, app, runID)
	if run.Status != model.RunCompleted {
		t.Fatalf("run ended as %s (%s), want completed", run.Status, run.Message)
	}
	if run.Percent == nil || *run.Percent != 100 {
		t.Fatalf("completed run should report 100%%, got %v", run.Percent)
	}

	results, err := app.Run_DB.ReadResults(runName)
	if err != nil {
		t.Fatalf("read persisted results: %v", err)
	}
	if len(results.Proteins) != 1 || results.Proteins[0].Gene != "lanA" {
		t.Fatalf("unexpected proteins: %+v", results.Proteins)
	}
	if len(results.Clusters) != 1 || results.Clusters[0].Type != "lanthipeptide" {
		t.Fatalf("unexpected clusters: %+v", results.Clusters)
	}
	if results.Input == nil || results.Input.Records != 1 {
		t.Fatalf("input summary missing from results: %+v", results.Input)
	}
}

func TestUploadHandlerRunErrorsWithoutOutput(t *testing.T) {
	app := newTestApp(t)

	bin := t.TempDir()
	createFakeDocker(t, bin, "echo \"Reading sequence\"\nexit 0\n")
	prependPath(t, bin)

	body, contentType := multipartUpload(t, "genome.fa", ">contig1\nACGT\n", nil)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	app.UploadHandler(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	runID := strings.Split(strings.TrimPrefix(rr.Header().Get("Location"), "/progress/"), "/")[0]

	run := waitForTerminal(t, app, runID)
	if run.Status != model.RunError {
		t.Fatalf("run ended as %s, want error", run.Status)
	}
	if !strings.Contains(run.Message, "no GenBank output") {
		t.Fatalf("unexpected error message %q", run.Message)
	}
	if run.Percent != nil {
		t.Fatalf("failed run should report null percentage, got %d", *run.Percent)
	}
}

func TestUploadHandlerRejectsExtension(t *testing.T) {
	app := newTestApp(t)

	body, contentType := multipartUpload(t, "genome.exe", "MZ", nil)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	app.UploadHandler(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
	assertFlash(t, app, rr, "File type not allowed")

	// nothing may be left behind in the uploads folder
	entries, err := os.ReadDir(app.Run_DB.UploadsDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected upload was stored anyway: %v", entries)
	}
}

func TestUploadHandlerMissingFile(t *testing.T) {
	app := newTestApp(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("genefinding_tool", "prodigal"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	app.UploadHandler(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	assertFlash(t, app, rr, "No file was uploaded")
}
