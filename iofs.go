package onedatafs

import (
	"context"
	"io"
	"io/fs"

	"github.com/mwantia/onedatafs/data"
)

// FS returns a read-only io/fs.FS view of the filesystem, rooted at the
// configured space (or the space list in global mode). It satisfies
// fs.ReadDirFS and fs.StatFS, which makes the adapter usable with standard
// tooling and verifiable with testing/fstest.
func (f *FileSystem) FS() fs.FS {
	return f.FSContext(context.Background())
}

// FSContext is like FS but binds all operations to the given context.
func (f *FileSystem) FSContext(ctx context.Context) fs.FS {
	return &ioFS{odfs: f, ctx: ctx}
}

type ioFS struct {
	odfs *FileSystem
	ctx  context.Context
}

// fullPath maps an io/fs name ("." for the root, no leading slash) onto an
// adapter path.
func fullPath(name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", fs.ErrInvalid
	}
	if name == "." {
		return "/", nil
	}

	return "/" + name, nil
}

func (s *ioFS) Open(name string) (fs.File, error) {
	full, err := fullPath(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	info, err := s.odfs.Stat(s.ctx, full)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	if info.IsDir() {
		return &ioDir{s: s, name: name, info: info}, nil
	}

	file, err := s.odfs.OpenFile(s.ctx, full, data.AccessModeRead)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return &ioFile{file: file, info: info}, nil
}

func (s *ioFS) ReadDir(name string) ([]fs.DirEntry, error) {
	full, err := fullPath(name)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}

	infos, err := s.odfs.ReadDir(s.ctx, full)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}

	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = &ioDirEntry{info: info}
	}

	return entries, nil
}

func (s *ioFS) Stat(name string) (fs.FileInfo, error) {
	full, err := fullPath(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}

	info, err := s.odfs.Stat(s.ctx, full)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}

	return info, nil
}

// ioFile adapts a File to fs.File.
type ioFile struct {
	file *File
	info *data.FileInfo
}

func (f *ioFile) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

func (f *ioFile) Read(p []byte) (int, error) {
	return f.file.Read(p)
}

func (f *ioFile) Seek(offset int64, whence int) (int64, error) {
	return f.file.Seek(offset, whence)
}

func (f *ioFile) Close() error {
	return f.file.Close()
}

// ioDir adapts a directory to fs.ReadDirFile.
type ioDir struct {
	s    *ioFS
	name string
	info *data.FileInfo

	entries []fs.DirEntry
	loaded  bool
	pos     int
	closed  bool
}

func (d *ioDir) Stat() (fs.FileInfo, error) {
	return d.info, nil
}

func (d *ioDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: data.ErrIsDirectory}
}

func (d *ioDir) Close() error {
	if d.closed {
		return data.ErrClosed
	}

	d.closed = true
	return nil
}

func (d *ioDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.closed {
		return nil, data.ErrClosed
	}

	if !d.loaded {
		entries, err := d.s.ReadDir(d.name)
		if err != nil {
			return nil, err
		}
		d.entries = entries
		d.loaded = true
	}

	remaining := d.entries[d.pos:]
	if n <= 0 {
		d.pos = len(d.entries)
		return remaining, nil
	}

	if len(remaining) == 0 {
		return nil, io.EOF
	}

	if n > len(remaining) {
		n = len(remaining)
	}
	d.pos += n

	return remaining[:n], nil
}

// ioDirEntry adapts FileInfo to fs.DirEntry.
type ioDirEntry struct {
	info *data.FileInfo
}

func (e *ioDirEntry) Name() string {
	return e.info.Name()
}

func (e *ioDirEntry) IsDir() bool {
	return e.info.IsDir()
}

func (e *ioDirEntry) Type() fs.FileMode {
	return e.info.Mode().Type()
}

func (e *ioDirEntry) Info() (fs.FileInfo, error) {
	return e.info, nil
}
