package db

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yumyai/smashboard/internal/util"
	"github.com/yumyai/smashboard/pkg/handler/request"
	"github.com/yumyai/smashboard/pkg/model"
)

// Defining possible error
var RunNotExists = errors.New("Run directory does not exists")
var ResultsNotExists = errors.New("Run has no results.json yet")

// InvalidPathError flags a download path that points outside its run
// directory.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("Path error: %s escapes the run directory", e.Path)
}

const resultsFileName = "results.json"

// RunDB is the on-disk store: <Dir>/uploads holds the input files and
// <Dir>/runs one directory per antiSMASH run. Both paths double as
// Docker mount sources, so Dir is always absolute.
type RunDB struct {
	Dir string
}

func NewRunDB(dir string) (*RunDB, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	required_folders := []string{
		filepath.Join(abs, "uploads"),
		filepath.Join(abs, "runs"),
	}

	for _, folder := range required_folders {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", folder, err)
		}
	}

	return &RunDB{
		Dir: abs,
	}, nil
}

func (rdb *RunDB) UploadsDir() string {

	return filepath.Join(rdb.Dir, "uploads")
}

func (rdb *RunDB) RunsDir() string {

	return filepath.Join(rdb.Dir, "runs")
}

// SaveUpload stores src under a sanitized name with a unique
// timestamp+id prefix and returns the stored filename.
func (rdb *RunDB) SaveUpload(filename string, src io.Reader) (string, error) {
	base := util.SanitizeFilename(filename)
	if base == "" {
		base = "upload"
	}

	id := uuid.New()
	stored_name := fmt.Sprintf("%s_%s_%s",
		time.Now().UTC().Format("20060102150405"),
		hex.EncodeToString(id[:])[:6],
		base)

	dst, err := os.Create(filepath.Join(rdb.UploadsDir(), stored_name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return stored_name, nil
}

// EnsureRunDir creates the run's output directory if needed.
func (rdb *RunDB) EnsureRunDir(run_name string) (string, error) {
	dir := filepath.Join(rdb.RunsDir(), run_name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, nil
}

// RunDir returns the run's directory, or RunNotExists.
func (rdb *RunDB) RunDir(run_name string) (string, error) {
	dir := filepath.Join(rdb.RunsDir(), run_name)
	if !util.DirExists(dir) {
		return "", fmt.Errorf("%w: %s", RunNotExists, run_name)
	}
	return dir, nil
}

// ListRunFiles walks the run directory and returns every regular file
// with its size and mtime, paths relative to the run directory.
func (rdb *RunDB) ListRunFiles(run_name string) ([]model.RunFile, error) {
	dir, err := rdb.RunDir(run_name)
	if err != nil {
		return nil, err
	}

	var files []model.RunFile
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, model.RunFile{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list run files: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ResolveRunFile maps a client-supplied relative path onto the run
// directory, refusing anything that would escape it.
func (rdb *RunDB) ResolveRunFile(req request.DownloadRequest) (string, error) {
	dir, err := rdb.RunDir(req.Run_Name)
	if err != nil {
		return "", err
	}

	full := filepath.Join(dir, filepath.FromSlash(req.Path))
	rel, err := filepath.Rel(dir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &InvalidPathError{Path: req.Path}
	}

	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("stat run file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", fs.ErrNotExist, req.Path)
	}

	return full, nil
}

// WriteResults persists the parsed tables as results.json in the run
// directory.
func (rdb *RunDB) WriteResults(run_name string, results *model.RunResults) error {
	dir, err := rdb.RunDir(run_name)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, resultsFileName), payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", resultsFileName, err)
	}
	return nil
}

// ReadResults loads a run's results.json, or ResultsNotExists when the
// run finished without one (or has not finished).
func (rdb *RunDB) ReadResults(run_name string) (*model.RunResults, error) {
	dir, err := rdb.RunDir(run_name)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(filepath.Join(dir, resultsFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ResultsNotExists, run_name)
		}
		return nil, fmt.Errorf("read %s: %w", resultsFileName, err)
	}

	var results model.RunResults
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", resultsFileName, err)
	}
	return &results, nil
}
