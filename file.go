package onedatafs

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/mwantia/onedatafs/cache"
	"github.com/mwantia/onedatafs/data"
)

// File is a handle to a remote file. It provides read, write and seek
// capabilities; the available operations depend on the access mode flags
// used when opening. Every read and write translates into a ranged REST
// request, so the handle holds no local buffer to flush.
type File struct {
	mu  sync.RWMutex
	ctx context.Context

	fs     *FileSystem
	space  string
	rel    string
	fileID string
	flags  data.AccessMode
	offset int64
	closed bool
}

// OpenFile opens a file with the specified access mode flags.
// With AccessModeCreate a missing file is created; AccessModeExcl then
// demands that the file did not exist before. AccessModeTrunc empties the
// file and AccessModeAppend positions the handle at its end.
func (f *FileSystem) OpenFile(ctx context.Context, p string, flags data.AccessMode) (*File, error) {
	if f.options.ReadOnly && flags.CanWrite() {
		return nil, data.ErrReadOnly
	}
	if !flags.CanRead() && !flags.CanWrite() {
		return nil, data.ErrInvalid
	}

	space, rel, err := f.resolve(p)
	if err != nil {
		return nil, err
	}
	if rel == "" {
		return nil, data.ErrIsDirectory
	}

	created := false
	fileID, err := f.client.LookupFileID(ctx, space, rel)
	if err != nil {
		if !errors.Is(err, data.ErrNotExist) || !flags.HasCreate() {
			return nil, err
		}

		fileID, err = f.client.CreateFile(ctx, space, rel, data.FileTypeRegular, false)
		if err != nil {
			return nil, err
		}
		created = true
		f.invalidate(space, rel)
	}

	file := &File{
		ctx:    ctx,
		fs:     f,
		space:  space,
		rel:    rel,
		fileID: fileID,
		flags:  flags,
	}

	if created {
		return file, nil
	}

	attrs, err := f.client.GetAttributesByID(ctx, space, fileID)
	if err != nil {
		return nil, err
	}
	if data.FileTypeFromString(attrs.Type) == data.FileTypeDirectory {
		return nil, data.ErrIsDirectory
	}
	if flags.HasCreate() && flags.HasExcl() {
		return nil, data.ErrExist
	}

	if flags.HasTrunc() && flags.CanWrite() {
		if err := f.client.TruncateFile(ctx, space, fileID, 0); err != nil {
			return nil, err
		}
		f.invalidate(space, rel)
	} else if flags.HasAppend() && flags.CanWrite() {
		file.offset = attrs.Size
	}

	return file, nil
}

// Name returns the space-relative path of the file.
func (file *File) Name() string {
	return file.rel
}

// size fetches the current remote size of the file.
func (file *File) size() (int64, error) {
	attrs, err := file.fs.client.GetAttributesByID(file.ctx, file.space, file.fileID)
	if err != nil {
		return 0, err
	}

	return attrs.Size, nil
}

// Read reads up to len(p) bytes from the file at the current offset.
// Advances the offset by the number of bytes read.
// Returns ErrPermission if the file was not opened with read access.
func (file *File) Read(p []byte) (int, error) {
	file.mu.Lock()
	defer file.mu.Unlock()

	n, err := file.readAt(p, file.offset)
	if n > 0 {
		file.offset += int64(n)
		// A short ranged read still made progress; report EOF on the
		// next call instead.
		if err == io.EOF {
			err = nil
		}
	}

	return n, err
}

// ReadAt reads len(p) bytes starting at the given offset without moving the
// handle's own offset. It implements io.ReaderAt.
func (file *File) ReadAt(p []byte, offset int64) (int, error) {
	file.mu.RLock()
	defer file.mu.RUnlock()

	return file.readAt(p, offset)
}

func (file *File) readAt(p []byte, offset int64) (int, error) {
	if file.closed {
		return 0, data.ErrClosed
	}
	if !file.flags.CanRead() {
		return 0, data.ErrPermission
	}
	if offset < 0 {
		return 0, data.ErrInvalid
	}

	// Check context cancellation
	select {
	case <-file.ctx.Done():
		return 0, file.ctx.Err()
	default:
	}

	size, err := file.size()
	if err != nil {
		return 0, err
	}
	if offset >= size {
		return 0, io.EOF
	}

	effective := int64(len(p))
	if remaining := size - offset; remaining < effective {
		effective = remaining
	}

	n, err := file.fs.client.ReadContent(file.ctx, file.space, file.fileID, offset, p[:effective])
	if err != nil {
		return n, err
	}
	if int64(n) < int64(len(p)) {
		return n, io.EOF
	}

	return n, nil
}

// Write writes len(p) bytes to the file at the current offset.
// Advances the offset by the number of bytes written.
// Returns ErrPermission if the file was not opened with write access.
func (file *File) Write(p []byte) (int, error) {
	file.mu.Lock()
	defer file.mu.Unlock()

	n, err := file.writeAt(p, file.offset)
	if n > 0 {
		file.offset += int64(n)
	}

	return n, err
}

// WriteAt writes len(p) bytes starting at the given offset without moving
// the handle's own offset. It implements io.WriterAt.
func (file *File) WriteAt(p []byte, offset int64) (int, error) {
	file.mu.Lock()
	defer file.mu.Unlock()

	return file.writeAt(p, offset)
}

func (file *File) writeAt(p []byte, offset int64) (int, error) {
	if file.closed {
		return 0, data.ErrClosed
	}
	if !file.flags.CanWrite() {
		return 0, data.ErrPermission
	}
	if offset < 0 {
		return 0, data.ErrInvalid
	}

	// Check context cancellation
	select {
	case <-file.ctx.Done():
		return 0, file.ctx.Err()
	default:
	}

	n, err := file.fs.client.WriteContent(file.ctx, file.space, file.fileID, offset, p)
	if n > 0 {
		file.fs.attrs.Invalidate(cache.Key(file.space, file.rel))
	}

	return n, err
}

// Seek sets the offset for the next Read or Write operation and returns the
// new offset. It implements io.Seeker. Seeking past the end is allowed;
// writing there leaves a hole.
func (file *File) Seek(offset int64, whence int) (int64, error) {
	file.mu.Lock()
	defer file.mu.Unlock()

	if file.closed {
		return 0, data.ErrClosed
	}

	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = file.offset + offset
	case io.SeekEnd:
		size, err := file.size()
		if err != nil {
			return 0, err
		}
		newOffset = size + offset
	default:
		return 0, data.ErrInvalid
	}

	if newOffset < 0 {
		return 0, data.ErrInvalid
	}

	file.offset = newOffset
	return newOffset, nil
}

// Truncate changes the size of the file. Shrinking discards data, growing
// pads with zeros. It does not move the offset.
func (file *File) Truncate(size int64) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	if file.closed {
		return data.ErrClosed
	}
	if !file.flags.CanWrite() {
		return data.ErrPermission
	}
	if size < 0 {
		return data.ErrInvalid
	}

	if err := file.fs.client.TruncateFile(file.ctx, file.space, file.fileID, size); err != nil {
		return err
	}

	file.fs.attrs.Invalidate(cache.Key(file.space, file.rel))
	return nil
}

// Stat returns current file information for the handle.
func (file *File) Stat(ctx context.Context) (*data.FileInfo, error) {
	file.mu.RLock()
	defer file.mu.RUnlock()

	if file.closed {
		return nil, data.ErrClosed
	}

	attrs, err := file.fs.client.GetAttributesByID(ctx, file.space, file.fileID)
	if err != nil {
		return nil, err
	}

	return attrs.FileInfo(file.space, data.JoinSpacePath(file.space, file.rel)), nil
}

// Close marks the handle as closed. All writes are already durable on the
// provider, so closing performs no flush.
func (file *File) Close() error {
	file.mu.Lock()
	defer file.mu.Unlock()

	if file.closed {
		return data.ErrClosed
	}

	file.closed = true
	return nil
}

// CanRead returns true if the file can be read, otherwise false.
func (file *File) CanRead() bool {
	return file.flags.CanRead()
}

// CanWrite returns true if the file can be written, otherwise false.
func (file *File) CanWrite() bool {
	return file.flags.CanWrite()
}
