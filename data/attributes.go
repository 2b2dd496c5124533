package data

import (
	"io/fs"
	"strconv"
	"time"
)

// Attributes is the wire representation of file attributes returned by the
// Oneprovider `/data/{fileId}` endpoint. Mode is an octal string on the wire.
type Attributes struct {
	FileID string `json:"fileId,omitempty"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Size   int64  `json:"size"`
	Atime  int64  `json:"atime"`
	Mtime  int64  `json:"mtime"`
	Ctime  int64  `json:"ctime"`
	UID    int64  `json:"storage_user_id"`
	GID    int64  `json:"storage_group_id"`
}

// FileInfo converts wire attributes into a FileInfo for the given path.
func (a *Attributes) FileInfo(space, path string) *FileInfo {
	mode, err := strconv.ParseUint(a.Mode, 8, 32)
	if err != nil {
		mode = 0
	}

	return &FileInfo{
		Path:       path,
		Space:      space,
		FileID:     a.FileID,
		Type:       FileTypeFromString(a.Type),
		FileMode:   fs.FileMode(mode) & fs.ModePerm,
		FileSize:   a.Size,
		AccessTime: time.Unix(a.Atime, 0),
		ModifyTime: time.Unix(a.Mtime, 0),
		UID:        a.UID,
		GID:        a.GID,
	}
}

// AttributeUpdate is the wire representation of a `PUT /data/{fileId}` body.
// Only non-nil fields are sent.
type AttributeUpdate struct {
	Mode *string `json:"mode,omitempty"`
	Size *int64  `json:"size,omitempty"`
}
