package testutil

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FaultFs wraps an afero.Fs and fails selected operations by path.
// Paths are compared after filepath.Clean.
type FaultFs struct {
	afero.Fs

	OpenErrs      map[string]error
	OpenFileErrs  map[string]error
	RenameErrs    map[string]error // keyed by source path
	RemoveErrs    map[string]error
	RemoveAllErrs map[string]error
}

// NewFaultFs wraps base with empty fault tables
func NewFaultFs(base afero.Fs) *FaultFs {
	return &FaultFs{
		Fs:            base,
		OpenErrs:      map[string]error{},
		OpenFileErrs:  map[string]error{},
		RenameErrs:    map[string]error{},
		RemoveErrs:    map[string]error{},
		RemoveAllErrs: map[string]error{},
	}
}

func lookup(table map[string]error, name string) error {
	return table[filepath.Clean(name)]
}

func (f *FaultFs) Open(name string) (afero.File, error) {
	if err := lookup(f.OpenErrs, name); err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	return f.Fs.Open(name)
}

func (f *FaultFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if err := lookup(f.OpenFileErrs, name); err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FaultFs) Rename(oldname, newname string) error {
	if err := lookup(f.RenameErrs, oldname); err != nil {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: err}
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *FaultFs) Remove(name string) error {
	if err := lookup(f.RemoveErrs, name); err != nil {
		return &os.PathError{Op: "remove", Path: name, Err: err}
	}
	return f.Fs.Remove(name)
}

func (f *FaultFs) RemoveAll(path string) error {
	if err := lookup(f.RemoveAllErrs, path); err != nil {
		return &os.PathError{Op: "removeall", Path: path, Err: err}
	}
	return f.Fs.RemoveAll(path)
}
