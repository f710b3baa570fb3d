package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/smashboard/logger"
	"github.com/yumyai/smashboard/pkg/render"
)

// How many runs the front page lists.
const recentRunLimit = 20

func (app *AppContext) IndexPage(w http.ResponseWriter, r *http.Request) {

	flash := app.Flash.Pop(w, r)
	recent := app.Runs.Recent(recentRunLimit)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderIndexPage(w, flash, recent); err != nil {
		logger.Error("Failed to render index page", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
