package model

import (
	"strings"
)

// ProgressPhase ties a phrase from the antiSMASH log to the estimated
// completion when that phrase first appears.
type ProgressPhase struct {
	Keyword string
	Percent int
}

// Checkpoint percentages for the steps around the container run itself.
const (
	PercentStarting = 0
	PercentSetup    = 5
	PercentRunning  = 10
	PercentParsing  = 95
	PercentComplete = 100
)

// DefaultProgressPhases is the ordered phrase table for the
// antismash/standalone image. Earlier entries win when a line matches
// more than one phrase.
var DefaultProgressPhases = []ProgressPhase{
	{"Reading sequence", 15},
	{"Downloading", 20},
	{"Finding genes", 30},
	{"Running gene", 40},
	{"Detecting", 50},
	{"Predicting", 60},
	{"Creating", 70},
	{"Generating", 80},
	{"Writing", 90},
}

// maxProgressMessage bounds how much of a log line is surfaced to the
// progress page.
const maxProgressMessage = 100

// ProgressEstimator maps container log lines onto a percentage.
// Estimates never decrease: a phrase the tool emits out of order (or
// again, e.g. a second "Downloading" late in the run) refreshes the
// displayed message but keeps the highest percentage seen so far.
type ProgressEstimator struct {
	phases  []ProgressPhase
	percent int
	phase   string
}

// NewProgressEstimator builds an estimator over the default phrase table.
func NewProgressEstimator() *ProgressEstimator {
	return NewProgressEstimatorWithPhases(DefaultProgressPhases)
}

// NewProgressEstimatorWithPhases builds an estimator over a custom table.
func NewProgressEstimatorWithPhases(phases []ProgressPhase) *ProgressEstimator {
	return &ProgressEstimator{
		phases:  phases,
		percent: PercentRunning,
	}
}

// Observe matches one log line against the phase table. It returns the
// update to publish and whether the line matched at all; unrecognized
// lines produce no update.
func (e *ProgressEstimator) Observe(line string) (ProgressUpdate, bool) {
	lower := strings.ToLower(strings.TrimRight(line, "\r\n"))

	for _, phase := range e.phases {
		if !strings.Contains(lower, strings.ToLower(phase.Keyword)) {
			continue
		}

		if phase.Percent > e.percent {
			e.percent = phase.Percent
		}
		e.phase = phase.Keyword

		return ProgressUpdate{
			Status:  RunRunning,
			Message: "antiSMASH: " + truncateLine(line, maxProgressMessage),
			Percent: Pct(e.percent),
		}, true
	}

	return ProgressUpdate{}, false
}

// Percent reports the highest estimate observed so far.
func (e *ProgressEstimator) Percent() int {
	return e.percent
}

// Phase reports the most recently matched phrase.
func (e *ProgressEstimator) Phase() string {
	return e.phase
}

func truncateLine(line string, limit int) string {
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if len(runes) <= limit {
		return line
	}
	return string(runes[:limit]) + "..."
}
