package data

import (
	"encoding/json"
	"io/fs"
	"path"
	"time"
)

// FileInfo contains metadata about a filesystem entry.
// It implements io/fs.FileInfo so entries can be handed to standard tooling.
type FileInfo struct {
	// Path within the filesystem (space-relative or global, depending on mode)
	Path string `json:"path"`

	// Space the entry belongs to
	Space string `json:"space"`

	// Opaque Onedata file identifier
	FileID string `json:"file_id"`

	// Type of entry (file, directory, symlink)
	Type FileType `json:"type"`

	// Unix-style permissions
	FileMode fs.FileMode `json:"mode"`

	// Size in bytes (0 for directories)
	FileSize int64 `json:"size"`

	// Last access time
	AccessTime time.Time `json:"access_time"`

	// Last modification time
	ModifyTime time.Time `json:"modify_time"`

	// Storage-level owner ids as reported by the provider
	UID int64 `json:"uid"`
	GID int64 `json:"gid"`
}

// Marshal provides JSON serialization for FileInfo.
func (fi *FileInfo) Marshal() ([]byte, error) {
	return json.Marshal(fi)
}

// Unmarshal provides JSON deserialization for FileInfo.
func (fi *FileInfo) Unmarshal(data []byte) error {
	return json.Unmarshal(data, &fi)
}

// Name returns the base name of the file or directory.
func (fi *FileInfo) Name() string {
	return path.Base(fi.Path)
}

// Size returns the size in bytes.
func (fi *FileInfo) Size() int64 {
	return fi.FileSize
}

// Mode returns the file mode bits, including fs.ModeDir for directories.
func (fi *FileInfo) Mode() fs.FileMode {
	mode := fi.FileMode
	switch fi.Type {
	case FileTypeDirectory:
		mode |= fs.ModeDir
	case FileTypeSymlink:
		mode |= fs.ModeSymlink
	}
	return mode
}

// ModTime returns the last modification time.
func (fi *FileInfo) ModTime() time.Time {
	return fi.ModifyTime
}

// IsDir returns true if this entry is a directory.
func (fi *FileInfo) IsDir() bool {
	return fi.Type == FileTypeDirectory
}

// IsFile returns true if this entry is a regular file.
func (fi *FileInfo) IsFile() bool {
	return fi.Type == FileTypeRegular
}

// Sys returns nil; there is no underlying system representation.
func (fi *FileInfo) Sys() any {
	return nil
}

// Clone creates a copy of the file info.
func (fi *FileInfo) Clone() *FileInfo {
	clone := *fi
	return &clone
}

// CloneWithPath returns a copy with a different path.
// Useful when converting between space-relative and global paths.
func (fi *FileInfo) CloneWithPath(path string) *FileInfo {
	clone := fi.Clone()
	clone.Path = path

	return clone
}
