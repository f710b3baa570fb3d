package handler

import (
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yumyai/smashboard/pkg/model"
)

// RunManager stores run states indexed by run ID, with a name index
// for the results pages. Each run has exactly one background goroutine
// writing through Update; everything else reads snapshots.
type RunManager struct {
	mu     sync.RWMutex
	runs   map[string]*model.Run
	byName map[string]string // run name -> run ID
}

// NewRunManager constructs a manager with no runs.
func NewRunManager() *RunManager {
	return &RunManager{
		runs:   make(map[string]*model.Run),
		byName: make(map[string]string),
	}
}

// NewRun registers a starting run and returns a snapshot of it.
func (m *RunManager) NewRun(name, inputFile, outputDir string) model.Run {
	id := uuid.New()
	run := &model.Run{
		ID:        hex.EncodeToString(id[:]),
		Name:      name,
		InputFile: inputFile,
		OutputDir: outputDir,
		Status:    model.RunStarting,
		Message:   "Starting analysis...",
		Percent:   model.Pct(model.PercentStarting),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	m.mu.Lock()
	m.runs[run.ID] = run
	m.byName[run.Name] = run.ID
	m.mu.Unlock()
	return *run
}

// Update applies a progress observation. Completed and failed runs
// stay as they are, and a reported percentage can never move the bar
// backwards; error states drop the percentage entirely.
func (m *RunManager) Update(runID string, up model.ProgressUpdate) {
	m.updateRun(runID, func(run *model.Run) {
		run.Status = up.Status
		run.Message = up.Message
		switch {
		case up.Status == model.RunError:
			run.Percent = nil
		case up.Percent == nil:
			// keep the previous estimate
		case run.Percent == nil || *up.Percent >= *run.Percent:
			run.Percent = up.Percent
		}
	})
}

// SetSummary attaches the input summary once it has been computed.
func (m *RunManager) SetSummary(runID string, summary *model.InputSummary) {
	m.updateRun(runID, func(run *model.Run) {
		run.Summary = summary
	})
}

// Get fetches a snapshot of a run by ID.
func (m *RunManager) Get(runID string) (model.Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[runID]
	if !ok {
		return model.Run{}, false
	}
	return *run, true
}

// GetByName fetches a snapshot of a run by its run name.
func (m *RunManager) GetByName(name string) (model.Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[name]
	if !ok {
		return model.Run{}, false
	}
	run, ok := m.runs[id]
	if !ok {
		return model.Run{}, false
	}
	return *run, true
}

// Recent returns up to n runs, newest first.
func (m *RunManager) Recent(n int) []model.Run {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]model.Run, 0, len(m.runs))
	for _, run := range m.runs {
		all = append(all, *run)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].Name > all[j].Name
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// Prune drops terminal runs not touched since cutoff, returning how
// many went away. Live runs are never pruned.
func (m *RunManager) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, run := range m.runs {
		if !run.Status.Terminal() || !run.UpdatedAt.Before(cutoff) {
			continue
		}
		delete(m.runs, id)
		if m.byName[run.Name] == id {
			delete(m.byName, run.Name)
		}
		removed++
	}
	return removed
}

func (m *RunManager) updateRun(runID string, update func(run *model.Run)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok || run.Status.Terminal() {
		return
	}

	update(run)
	run.UpdatedAt = time.Now()
}
