// Package organizer sorts the regular files of a single directory into
// category subfolders, optionally deleting files whose content was already
// seen earlier in the same pass.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Ning0612/pcclean/internal/core/checksum"
	"github.com/Ning0612/pcclean/internal/domain"
	"github.com/Ning0612/pcclean/internal/logger"
)

// Organizer relocates files into category folders
type Organizer struct {
	fs         afero.Fs
	categories domain.CategorySet
	hasher     checksum.FileHasher
	log        logger.Logger
}

// New creates an Organizer. hasher may be nil when duplicate deletion is never requested.
func New(fs afero.Fs, categories domain.CategorySet, hasher checksum.FileHasher, log logger.Logger) *Organizer {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Organizer{
		fs:         fs,
		categories: categories,
		hasher:     hasher,
		log:        log.With("component", "organizer"),
	}
}

// fileRecord is the per-entry working state of one pass
type fileRecord struct {
	Path string
	Name string
	Ext  string
	Hash string
}

// Organize processes every regular file directly inside dir exactly once.
//
// The returned error is non-nil only when dir is missing or unreadable, or
// when ctx is cancelled between entries. Per-file failures are collected in
// the result and never stop the pass.
func (o *Organizer) Organize(ctx context.Context, dir string, deleteDuplicates bool) (domain.OrganizeResult, error) {
	var result domain.OrganizeResult

	info, err := o.fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			o.log.Error("directory does not exist", "dir", dir)
			return result, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, dir)
		}
		o.log.Error("cannot stat directory", "dir", dir, "error", err)
		return result, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		o.log.Error("path is not a directory", "dir", dir)
		return result, fmt.Errorf("%w: %s", domain.ErrNotDirectory, dir)
	}

	entries, err := afero.ReadDir(o.fs, dir)
	if err != nil {
		o.log.Error("cannot list directory", "dir", dir, "error", err)
		return result, fmt.Errorf("list %s: %w", dir, err)
	}

	o.log.Info("organizing directory", "dir", dir, "entries", len(entries), "delete_duplicates", deleteDuplicates)

	index := newHashIndex()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			o.log.Warn("organize interrupted", "dir", dir, "moved", result.Moved)
			return result, err
		}

		if !entry.Mode().IsRegular() {
			continue
		}

		_, ext := domain.SplitExt(entry.Name())
		rec := fileRecord{
			Path: filepath.Join(dir, entry.Name()),
			Name: entry.Name(),
			Ext:  domain.NormalizeExtension(ext),
		}
		o.process(ctx, dir, rec, deleteDuplicates, index, &result)
	}

	o.log.Info("organize finished",
		"dir", dir,
		"moved", result.Moved,
		"duplicates", result.Duplicates,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (o *Organizer) process(ctx context.Context, dir string, rec fileRecord, deleteDuplicates bool, index *hashIndex, result *domain.OrganizeResult) {
	category := o.categories.Lookup(rec.Ext)
	categoryDir := filepath.Join(dir, category)

	if err := o.fs.MkdirAll(categoryDir, 0755); err != nil {
		o.fail(result, domain.OpMkdir, categoryDir, err)
		return
	}

	if deleteDuplicates && o.hasher != nil {
		hash, err := o.hasher.HashFile(ctx, rec.Path)
		if err != nil {
			// Unhashable files are kept and moved like any other
			o.fail(result, domain.OpHash, rec.Path, err)
		} else {
			rec.Hash = hash
		}

		if rec.Hash != "" {
			if original, seen := index.lookup(rec.Hash); seen {
				if err := o.fs.Remove(rec.Path); err != nil {
					o.fail(result, domain.OpDelete, rec.Path, err)
					return
				}
				result.Duplicates++
				o.log.Warn("duplicate deleted", "file", rec.Name, "original", original, "hash", rec.Hash)
				return
			}
			index.add(rec.Hash, rec.Path)
		}
	}

	dest, err := o.destination(categoryDir, rec.Name)
	if err != nil {
		o.fail(result, domain.OpStat, rec.Path, err)
		return
	}

	if err := o.move(rec.Path, dest); err != nil {
		o.fail(result, domain.OpMove, rec.Path, err)
		return
	}

	result.Moved++
	o.log.Info("moved file", "file", rec.Name, "category", category, "destination", dest)
}

func (o *Organizer) fail(result *domain.OrganizeResult, op domain.Operation, path string, err error) {
	itemErr := domain.NewItemError(op, path, err)
	result.Errors = append(result.Errors, itemErr)
	o.log.Error("item failed", "op", string(op), "path", path, "error", err)
}

// destination returns categoryDir/name, or the first free name_N.ext variant
func (o *Organizer) destination(categoryDir, name string) (string, error) {
	dest := filepath.Join(categoryDir, name)
	exists, err := afero.Exists(o.fs, dest)
	if err != nil {
		return "", err
	}
	if !exists {
		return dest, nil
	}

	base, ext := domain.SplitExt(name)
	for n := 1; ; n++ {
		candidate := filepath.Join(categoryDir, fmt.Sprintf("%s_%d%s", base, n, ext))
		exists, err := afero.Exists(o.fs, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			o.log.Debug("name collision, renaming", "original", dest, "renamed", candidate)
			return candidate, nil
		}
	}
}

// move renames src to dst, falling back to copy and delete when rename fails
// (for example across volumes).
func (o *Organizer) move(src, dst string) error {
	renameErr := o.fs.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	o.log.Debug("rename failed, copying instead", "source", src, "destination", dst, "error", renameErr)

	if err := o.copyFile(src, dst); err != nil {
		return errors.Join(renameErr, err)
	}

	if err := o.fs.Remove(src); err != nil {
		// Keep exactly one copy
		o.fs.Remove(dst)
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

func (o *Organizer) copyFile(src, dst string) error {
	in, err := o.fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := o.fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		o.fs.Remove(dst)
		return fmt.Errorf("copy content: %w", err)
	}
	if err := out.Close(); err != nil {
		o.fs.Remove(dst)
		return fmt.Errorf("close destination: %w", err)
	}

	o.fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
