package model

import "time"

// RunStatus is the lifecycle step of an antiSMASH run. The values are
// the step names the progress API reports, so clients key off them.
type RunStatus string

const (
	RunStarting  RunStatus = "starting"
	RunSetup     RunStatus = "setup"
	RunRunning   RunStatus = "running"
	RunParsing   RunStatus = "parsing"
	RunCompleted RunStatus = "completed"
	RunError     RunStatus = "error"
)

// Terminal reports whether a run in this status can still change.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunError
}

// ProgressUpdate is one observation of run progress, produced by the
// launcher and the log estimator and consumed by the run manager.
// Percent is nil when no estimate applies (errors report no number).
type ProgressUpdate struct {
	Status  RunStatus
	Message string
	Percent *int
}

// Pct is a convenience for building updates around literal percentages.
func Pct(p int) *int {
	return &p
}

// Run is the full state of one analysis, as kept by the run manager.
// InputFile is the stored name inside the uploads directory, OutputDir
// the host path antiSMASH writes into.
type Run struct {
	ID        string        `json:"run_id"`
	Name      string        `json:"run_name"`
	InputFile string        `json:"input_file"`
	OutputDir string        `json:"output_dir"`
	Status    RunStatus     `json:"status"`
	Message   string        `json:"message"`
	Percent   *int          `json:"percentage"`
	Summary   *InputSummary `json:"input,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
