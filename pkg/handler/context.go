package handler

// DI for all handlers and models alike.

import (
	lru "github.com/hashicorp/golang-lru/v2"

	rundb "github.com/yumyai/smashboard/pkg/db"
	"github.com/yumyai/smashboard/pkg/model"
)

type AppContext struct {
	Run_DB      *rundb.RunDB
	Runs        *RunManager
	Flash       *FlashStore
	ResultCache *lru.Cache[string, *model.RunResults]
	DockerImage string
}
