// Package purge deletes the contents of operating-system temp locations.
package purge

import (
	"context"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/Ning0612/pcclean/internal/confirm"
	"github.com/Ning0612/pcclean/internal/domain"
	"github.com/Ning0612/pcclean/internal/logger"
)

// Warning is shown by the confirmation gate before anything is deleted
const Warning = "WARNING: This will permanently delete temp files. It's usually safe, but check the log if issues arise."

// Purger empties a fixed list of temp locations, keeping the locations themselves
type Purger struct {
	fs        afero.Fs
	locations []string
	confirmer confirm.Confirmer
	log       logger.Logger
}

// New creates a Purger over locations. The slice is copied.
func New(fs afero.Fs, locations []string, confirmer confirm.Confirmer, log logger.Logger) *Purger {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Purger{
		fs:        fs,
		locations: append([]string(nil), locations...),
		confirmer: confirmer,
		log:       log.With("component", "purger"),
	}
}

// Locations returns the configured locations
func (p *Purger) Locations() []string {
	return append([]string(nil), p.locations...)
}

// Purge deletes every file below each existing location, then the emptied
// subdirectories. Nothing is touched unless the confirmer agrees. Per-entry
// failures are collected and never stop the purge; the returned error is
// non-nil only when ctx is cancelled.
func (p *Purger) Purge(ctx context.Context) (domain.PurgeResult, error) {
	var result domain.PurgeResult

	if len(p.locations) == 0 {
		p.log.Warn("no temp locations for this platform, skipping cleanup")
		return result, nil
	}

	ok, err := p.confirmer.Confirm(Warning)
	if err != nil {
		p.log.Warn("confirmation failed, cleanup aborted", "error", err)
	}
	if err != nil || !ok {
		p.log.Info("temp cleanup declined")
		result.Declined = true
		return result, nil
	}

	for _, location := range p.locations {
		exists, err := afero.DirExists(p.fs, location)
		if err != nil || !exists {
			p.log.Debug("temp location missing, skipping", "location", location)
			continue
		}

		p.log.Info("purging temp location", "location", location)
		if err := p.purgeDir(ctx, location, &result); err != nil {
			p.log.Warn("temp cleanup interrupted", "deleted", result.Deleted)
			return result, err
		}
	}

	p.log.Info("temp cleanup finished",
		"deleted", result.Deleted,
		"bytes_freed", result.BytesFreed,
		"freed", humanize.IBytes(uint64(result.BytesFreed)),
		"errors", len(result.Errors),
	)
	return result, nil
}

// purgeDir walks dir bottom-up: subdirectories first, then dir's own files,
// then removal of the subdirectories that are now empty.
func (p *Purger) purgeDir(ctx context.Context, dir string, result *domain.PurgeResult) error {
	entries, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		p.fail(result, domain.OpList, dir, err)
		return nil
	}

	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			sub := filepath.Join(dir, entry.Name())
			subdirs = append(subdirs, sub)
			if err := p.purgeDir(ctx, sub, result); err != nil {
				return err
			}
		}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		size := entry.Size()
		if err := p.fs.Remove(path); err != nil {
			p.fail(result, domain.OpDelete, path, err)
			continue
		}
		result.Deleted++
		result.BytesFreed += size
		p.log.Debug("deleted file", "path", path, "bytes", size)
	}

	for _, sub := range subdirs {
		// A directory holding undeletable content stays in place
		if err := p.fs.RemoveAll(sub); err != nil {
			p.log.Warn("failed to delete directory", "path", sub, "error", err)
			continue
		}
		p.log.Debug("deleted directory", "path", sub)
	}

	return nil
}

func (p *Purger) fail(result *domain.PurgeResult, op domain.Operation, path string, err error) {
	result.Errors = append(result.Errors, domain.NewItemError(op, path, err))
	p.log.Error("item failed", "op", string(op), "path", path, "error", err)
}
