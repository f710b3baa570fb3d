package main

import (
	"net/http"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/yumyai/smashboard/logger"
	rundb "github.com/yumyai/smashboard/pkg/db"
	"github.com/yumyai/smashboard/pkg/handler"
	"github.com/yumyai/smashboard/pkg/middle"
	"github.com/yumyai/smashboard/pkg/model"
	"go.uber.org/zap"
)

const resultCacheSize = 64

func main() {

	// Try load env before the logger so the log level can come from .env
	dotenvErr := godotenv.Load()

	VERSION := "0.1.0"
	LOG_LEVEL := logger.ParseLevel(os.Getenv("SMASHBOARD_LOG_LEVEL"))

	if err := logger.InitLogger(LOG_LEVEL); err != nil {
		panic(err)
	}

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	data_dir := os.Getenv("SMASHBOARD_DATA")

	if data_dir == "" {
		logger.Warn("No local environment (SMASHBOARD_DATA), using default value (./data)")
		data_dir = "./data"
	}

	secret := os.Getenv("SMASHBOARD_SECRET")

	if secret == "" {
		logger.Warn("No local environment (SMASHBOARD_SECRET), flash cookies use an insecure built-in key")
		secret = "smashboard-dev-secret"
	}

	image := os.Getenv("SMASHBOARD_IMAGE")

	if image == "" {
		image = model.DEFAULT_DOCKER_IMAGE
	}

	addr := os.Getenv("SMASHBOARD_ADDR")

	if addr == "" {
		addr = "0.0.0.0:8080"
	}

	run_db, err := rundb.NewRunDB(data_dir)
	if err != nil {
		logger.Fatal("Cannot prepare data directory", zap.String("dir", data_dir), zap.Error(err))
	}

	result_cache, err := lru.New[string, *model.RunResults](resultCacheSize)
	if err != nil {
		logger.Fatal("Cannot create result cache", zap.Error(err))
	}

	app := &handler.AppContext{
		Run_DB:      run_db,
		Runs:        handler.NewRunManager(),
		Flash:       handler.NewFlashStore(secret),
		ResultCache: result_cache,
		DockerImage: image,
	}

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Keeping runs under", zap.String("DATA_DIR", run_db.Dir))
	logger.Info("antiSMASH image", zap.String("IMAGE", image))

	startRetentionSweeper(app)

	mux := NewRouter(app)

	// Apply middleware
	mlog := middle.CreateMiddlewareLogger(LOG_LEVEL)
	wrapped := middle.LoggingMiddleware(mlog)(middle.RequestIDMiddleware(mlog)(mux))

	logger.Info("Server starting", zap.String("addr", addr))
	httpErr := http.ListenAndServe(addr, wrapped)
	if httpErr != nil {
		logger.Error("Error starting server:", zap.String("error message", httpErr.Error()))
	}
}

// Move to router.go in the next iteration
func NewRouter(app *handler.AppContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Main routes
	mux.HandleFunc("GET /{$}", app.IndexPage)
	mux.HandleFunc("POST /upload", app.UploadHandler)
	mux.HandleFunc("GET /progress/{run_id}/{run_name}", app.ProgressPage)
	mux.HandleFunc("GET /results/{run_name}", app.ResultsPage)
	mux.HandleFunc("GET /runs/{run_name}/files", app.RunFilesPage)
	mux.HandleFunc("GET /download/{run_name}/{filename...}", app.DownloadRunFile)

	// API routes
	mux.HandleFunc("GET /api/progress/{run_id}", app.ProgressAPI)
	mux.HandleFunc("GET /api/v1/health", app.HealthCheck)

	return mux
}

// startRetentionSweeper schedules periodic removal of expired run and upload
// entries. SMASHBOARD_RETENTION unset, zero or unparseable keeps everything.
func startRetentionSweeper(app *handler.AppContext) {

	retention := os.Getenv("SMASHBOARD_RETENTION")
	if retention == "" {
		return
	}

	ttl, err := time.ParseDuration(retention)
	if err != nil {
		logger.Warn("Cannot parse SMASHBOARD_RETENTION, sweeping disabled",
			zap.String("value", retention), zap.Error(err))
		return
	}
	if ttl <= 0 {
		return
	}

	c := cron.New()
	_, err = c.AddFunc("@every 30m", func() {
		removed, sweepErr := app.Run_DB.SweepExpired(ttl, time.Now())
		if sweepErr != nil {
			logger.Warn("Retention sweep finished with errors", zap.Error(sweepErr))
		}
		if len(removed) > 0 {
			logger.Info("Retention sweep removed runs", zap.Strings("runs", removed))
		}
		app.Runs.Prune(time.Now().Add(-ttl))
	})
	if err != nil {
		logger.Warn("Cannot schedule retention sweep", zap.Error(err))
		return
	}
	c.Start()

	logger.Info("Retention sweeper scheduled", zap.Duration("ttl", ttl))
}
