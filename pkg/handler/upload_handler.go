package handler

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/smashboard/logger"
	"github.com/yumyai/smashboard/pkg/handler/request"
	"github.com/yumyai/smashboard/pkg/model"
)

// Genome-scale uploads are normal here, so the cap is generous.
const maxUploadBytes = 256 << 20

// multipart form data over this stays on disk instead of memory
const maxUploadMemory = 32 << 20

func (app *AppContext) UploadHandler(w http.ResponseWriter, r *http.Request) {

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		app.Flash.Set(w, "Upload rejected: body too large or malformed.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		app.Flash.Set(w, "No file was uploaded.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		app.Flash.Set(w, "Empty filename.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if !model.AllowedUploadFile(header.Filename) {
		app.Flash.Set(w, "File type not allowed. Use fasta, fa, fna, gb, gbk, txt, ffn or fas.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	upreq := request.UploadRequest{
		Filename:   header.Filename,
		Genefinder: request.ParseGenefinderTool(r.FormValue("genefinding_tool")),
	}

	stored_name, err := app.Run_DB.SaveUpload(upreq.Filename, file)
	if err != nil {
		logger.Error("Failed to store upload", zap.Error(err))
		app.Flash.Set(w, "Could not store the uploaded file.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	run_name := "run_" + time.Now().UTC().Format("20060102_150405")
	run_dir, err := app.Run_DB.EnsureRunDir(run_name)
	if err != nil {
		logger.Error("Failed to create run directory", zap.Error(err))
		app.Flash.Set(w, "Could not prepare the run directory.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	run := app.Runs.NewRun(run_name, stored_name, run_dir)

	logger.Info("Upload accepted",
		zap.String("run_id", run.ID),
		zap.String("run_name", run.Name),
		zap.String("file", stored_name),
		zap.String("genefinding_tool", upreq.Genefinder.String()))

	go app.runAnalysis(run, upreq.Genefinder)

	http.Redirect(w, r, "/progress/"+run.ID+"/"+run.Name, http.StatusSeeOther)
}

// runAnalysis owns one container from launch to results.json. It is
// the only writer of that run's state while it executes.
func (app *AppContext) runAnalysis(run model.Run, genefinder request.GenefinderTool) {

	report := func(up model.ProgressUpdate) {
		app.Runs.Update(run.ID, up)
	}

	input_path := filepath.Join(app.Run_DB.UploadsDir(), run.InputFile)
	if summary, err := model.SummarizeInput(input_path); err != nil {
		logger.Warn("Could not summarize input", zap.String("run_name", run.Name), zap.Error(err))
	} else {
		app.Runs.SetSummary(run.ID, summary)
	}

	spec := model.RunSpec{
		RunName:    run.Name,
		InputFile:  run.InputFile,
		UploadsDir: app.Run_DB.UploadsDir(),
		RunsDir:    app.Run_DB.RunsDir(),
		RunDir:     run.OutputDir,
		Image:      app.DockerImage,
		Genefinder: genefinder.String(),
	}

	if err := model.RunAntismash(context.Background(), spec, report); err != nil {
		// the launcher already published the error state
		logger.Error("antiSMASH run failed", zap.String("run_name", run.Name), zap.Error(err))
		return
	}

	results, err := model.CollectRunResults(run.OutputDir, run.Name)
	if err != nil {
		logger.Warn("Some output files could not be parsed",
			zap.String("run_name", run.Name), zap.Error(err))
	}
	if snapshot, ok := app.Runs.Get(run.ID); ok {
		results.Input = snapshot.Summary
	}

	if err := app.Run_DB.WriteResults(run.Name, results); err != nil {
		logger.Error("Failed to persist results", zap.String("run_name", run.Name), zap.Error(err))
		report(model.ProgressUpdate{Status: model.RunError, Message: "Could not persist results: " + err.Error()})
		return
	}

	report(model.ProgressUpdate{
		Status:  model.RunCompleted,
		Message: "Analysis complete",
		Percent: model.Pct(model.PercentComplete),
	})

	logger.Info("Run completed",
		zap.String("run_name", run.Name),
		zap.Int("proteins", len(results.Proteins)),
		zap.Int("clusters", len(results.Clusters)))
}
