package soulcipher

import (
	"os"
	"path/filepath"
	"time"

	"github.com/absfs/absfs"
)

// osFileSystem adapts a real directory on disk to absfs.FileSystem, so
// file-set operations can run against either it or an in-memory
// github.com/absfs/memfs filesystem in tests without any code changes.
type osFileSystem struct {
	root string
}

// NewOSFileSystem returns an absfs.FileSystem rooted at dir.
func NewOSFileSystem(dir string) absfs.FileSystem {
	return &osFileSystem{root: dir}
}

func (fs *osFileSystem) path(name string) string {
	return filepath.Join(fs.root, name)
}

func (fs *osFileSystem) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	return os.OpenFile(fs.path(name), flag, perm)
}

func (fs *osFileSystem) Open(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

func (fs *osFileSystem) Create(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
}

func (fs *osFileSystem) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(fs.path(name), perm)
}

func (fs *osFileSystem) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(fs.path(name), perm)
}

func (fs *osFileSystem) Remove(name string) error {
	return os.Remove(fs.path(name))
}

func (fs *osFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(fs.path(path))
}

func (fs *osFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(fs.path(oldpath), fs.path(newpath))
}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(fs.path(name))
}

func (fs *osFileSystem) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(fs.path(name), mode)
}

func (fs *osFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(fs.path(name), atime, mtime)
}

func (fs *osFileSystem) Chown(name string, uid, gid int) error {
	return os.Chown(fs.path(name), uid, gid)
}

func (fs *osFileSystem) Chdir(dir string) error {
	return nil
}

func (fs *osFileSystem) Getwd() (string, error) {
	return "/", nil
}

func (fs *osFileSystem) TempDir() string {
	return os.TempDir()
}

func (fs *osFileSystem) Truncate(name string, size int64) error {
	return os.Truncate(fs.path(name), size)
}

func (fs *osFileSystem) Separator() uint8 {
	return os.PathSeparator
}

func (fs *osFileSystem) ListSeparator() uint8 {
	return os.PathListSeparator
}
