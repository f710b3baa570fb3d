package handler

import (
	"os"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/smashboard/logger"
	rundb "github.com/yumyai/smashboard/pkg/db"
	"github.com/yumyai/smashboard/pkg/model"
)

func TestMain(m *testing.M) {
	if err := logger.InitLogger(zapcore.ErrorLevel); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestApp builds an AppContext backed by a throwaway data directory.
func newTestApp(t *testing.T) *AppContext {
	t.Helper()

	run_db, err := rundb.NewRunDB(t.TempDir())
	if err != nil {
		t.Fatalf("new run db: %v", err)
	}

	cache, err := lru.New[string, *model.RunResults](8)
	if err != nil {
		t.Fatalf("new result cache: %v", err)
	}

	return &AppContext{
		Run_DB:      run_db,
		Runs:        NewRunManager(),
		Flash:       NewFlashStore("test-secret"),
		ResultCache: cache,
		DockerImage: "antismash/standalone:test",
	}
}
