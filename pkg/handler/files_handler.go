package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/yumyai/smashboard/logger"
	rundb "github.com/yumyai/smashboard/pkg/db"
	"github.com/yumyai/smashboard/pkg/handler/request"
	"github.com/yumyai/smashboard/pkg/render"
)

func (app *AppContext) RunFilesPage(w http.ResponseWriter, r *http.Request) {

	run_name := r.PathValue("run_name")

	files, err := app.Run_DB.ListRunFiles(run_name)
	if err != nil {
		if errors.Is(err, rundb.RunNotExists) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return
		}
		logger.Error("Failed to list run files", zap.String("run_name", run_name), zap.Error(err))
		http.Error(w, "Failed to list run files", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderRunFilesPage(w, run_name, files); err != nil {
		logger.Error("Failed to render file listing", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func (app *AppContext) DownloadRunFile(w http.ResponseWriter, r *http.Request) {

	req := request.DownloadRequest{
		Run_Name: r.PathValue("run_name"),
		Path:     r.PathValue("filename"),
	}

	path, err := app.Run_DB.ResolveRunFile(req)
	if err != nil {
		var invalid *rundb.InvalidPathError
		switch {
		case errors.As(err, &invalid):
			http.Error(w, "Invalid file path", http.StatusBadRequest)
		case errors.Is(err, rundb.RunNotExists), errors.Is(err, fs.ErrNotExist):
			http.Error(w, "Not Found", http.StatusNotFound)
		default:
			logger.Error("Failed to resolve run file", zap.String("run_name", req.Run_Name), zap.Error(err))
			http.Error(w, "Failed to resolve file", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filepath.Base(path)))
	http.ServeFile(w, r, path)
}
