package model

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/smashboard/logger"
)

// RunSpec is everything needed to launch one antiSMASH container.
// UploadsDir and RunsDir must be absolute since Docker mounts them.
type RunSpec struct {
	RunName    string
	InputFile  string // stored filename inside UploadsDir
	UploadsDir string // mounted at /input
	RunsDir    string // mounted at /output
	RunDir     string // host path of RunsDir/<RunName>
	Image      string
	Genefinder string
}

// ProgressFunc receives updates as the launcher observes them.
type ProgressFunc func(ProgressUpdate)

// buildDockerArgs assembles the container command line:
//
//	docker run --rm -v <uploads>:/input -v <runs>:/output <image>
//	  <input file> --genefinding-tool <tool> --output-dir /output/<run name>
func buildDockerArgs(spec RunSpec) []string {
	return []string{
		"run", "--rm",
		"-v", spec.UploadsDir + ":/input",
		"-v", spec.RunsDir + ":/output",
		spec.Image,
		spec.InputFile,
		"--genefinding-tool", spec.Genefinder,
		"--output-dir", "/output/" + spec.RunName,
	}
}

// RunAntismash launches the container and follows its merged
// stdout+stderr, turning recognized log lines into progress updates.
// A run fails on a non-zero exit, and also when the container exits
// cleanly without leaving any GenBank output behind.
func RunAntismash(ctx context.Context, spec RunSpec, report ProgressFunc) error {
	report(ProgressUpdate{Status: RunSetup, Message: "Preparing Docker environment...", Percent: Pct(PercentSetup)})

	cmd := exec.CommandContext(ctx, "docker", buildDockerArgs(spec)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		report(ProgressUpdate{Status: RunError, Message: "Could not attach to Docker output: " + err.Error()})
		return fmt.Errorf("attach docker output: %w", err)
	}
	// antiSMASH logs on stderr, docker itself on stdout; follow both
	// as one stream.
	cmd.Stderr = cmd.Stdout

	logger.Info("Launching antiSMASH",
		zap.String("run_name", spec.RunName),
		zap.String("image", spec.Image),
		zap.String("input", spec.InputFile))

	if err := cmd.Start(); err != nil {
		report(ProgressUpdate{Status: RunError, Message: "Could not start Docker: " + err.Error()})
		return fmt.Errorf("failed to execute docker: %w", err)
	}

	report(ProgressUpdate{Status: RunRunning, Message: "Running antiSMASH...", Percent: Pct(PercentRunning)})

	estimator := NewProgressEstimator()
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		logger.Debug("antismash", zap.String("run_name", spec.RunName), zap.String("line", line))
		if update, ok := estimator.Observe(line); ok {
			report(update)
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		logger.Warn("Lost the container log stream", zap.String("run_name", spec.RunName), zap.Error(scanErr))
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			report(ProgressUpdate{
				Status:  RunError,
				Message: fmt.Sprintf("antiSMASH failed with exit code %d", exitErr.ExitCode()),
			})
			return fmt.Errorf("antismash exited with code %d", exitErr.ExitCode())
		}
		report(ProgressUpdate{Status: RunError, Message: "Docker failed: " + err.Error()})
		return fmt.Errorf("wait for docker: %w", err)
	}

	if !hasGenBankOutput(spec.RunDir) {
		report(ProgressUpdate{Status: RunError, Message: "antiSMASH produced no GenBank output"})
		return fmt.Errorf("no genbank output under %s", spec.RunDir)
	}

	report(ProgressUpdate{Status: RunParsing, Message: "Processing results...", Percent: Pct(PercentParsing)})
	return nil
}

// hasGenBankOutput looks for at least one .gbk anywhere under dir.
func hasGenBankOutput(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".gbk") {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}
