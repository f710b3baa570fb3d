package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/smashboard/logger"
	"github.com/yumyai/smashboard/pkg/render"
)

// ProgressResponse is what the progress page polls for. Percentage is
// a pointer so unknown and failed runs serialize as null.
type ProgressResponse struct {
	Step       string `json:"step"`
	Message    string `json:"message"`
	Percentage *int   `json:"percentage"`
	Timestamp  string `json:"timestamp"`
}

func (app *AppContext) ProgressPage(w http.ResponseWriter, r *http.Request) {

	run_id := r.PathValue("run_id")
	run_name := r.PathValue("run_name")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderProgressPage(w, run_id, run_name); err != nil {
		logger.Error("Failed to render progress page", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// ProgressAPI reports the current state of a run. An unknown ID is not
// an HTTP error: pollers get a JSON "unknown" step and decide for
// themselves.
func (app *AppContext) ProgressAPI(w http.ResponseWriter, r *http.Request) {

	run_id := r.PathValue("run_id")

	var response ProgressResponse
	if run, ok := app.Runs.Get(run_id); ok {
		response = ProgressResponse{
			Step:       string(run.Status),
			Message:    run.Message,
			Percentage: run.Percent,
			Timestamp:  run.UpdatedAt.UTC().Format(time.RFC3339),
		}
	} else {
		response = ProgressResponse{
			Step:      "unknown",
			Message:   "Run not found",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
