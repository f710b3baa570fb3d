package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/smashboard/logger"
	rundb "github.com/yumyai/smashboard/pkg/db"
	"github.com/yumyai/smashboard/pkg/render"
)

func (app *AppContext) ResultsPage(w http.ResponseWriter, r *http.Request) {

	run_name := r.PathValue("run_name")

	// Completed runs never change, so the parsed tables cache well.
	results, ok := app.ResultCache.Get(run_name)
	if !ok {
		var err error
		results, err = app.Run_DB.ReadResults(run_name)
		if err != nil {
			if errors.Is(err, rundb.RunNotExists) || errors.Is(err, rundb.ResultsNotExists) {
				app.Flash.Set(w, "No results for that run (yet).")
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			logger.Error("Failed to read results", zap.String("run_name", run_name), zap.Error(err))
			http.Error(w, "Failed to load results", http.StatusInternalServerError)
			return
		}
		app.ResultCache.Add(run_name, results)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderResultsPage(w, results); err != nil {
		logger.Error("Failed to render results page", zap.Error(err))
		http.Error(w, "Failed to render results", http.StatusInternalServerError)
	}
}
