package db

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
)

// SweepExpired removes run directories and uploads whose modification
// time is older than ttl. It returns the removed run names so callers
// can drop matching in-memory state. Individual failures do not stop
// the sweep; they come back aggregated.
func (rdb *RunDB) SweepExpired(ttl time.Duration, now time.Time) ([]string, error) {
	if ttl <= 0 {
		return nil, nil
	}
	cutoff := now.Add(-ttl)

	var removed []string
	var errs error

	runs, err := os.ReadDir(rdb.RunsDir())
	if err != nil {
		return nil, err
	}
	for _, entry := range runs {
		info, err := entry.Info()
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(rdb.RunsDir(), entry.Name())); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		removed = append(removed, entry.Name())
	}

	uploads, err := os.ReadDir(rdb.UploadsDir())
	if err != nil {
		return removed, multierr.Append(errs, err)
	}
	for _, entry := range uploads {
		info, err := entry.Info()
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(rdb.UploadsDir(), entry.Name())); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return removed, errs
}
