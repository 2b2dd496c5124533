package onedatafs

import (
	"context"
	"sort"

	"github.com/mwantia/onedatafs/data"
)

// fileID resolves a path to its space name and file id.
func (f *FileSystem) fileID(ctx context.Context, p string) (string, string, error) {
	space, rel, err := f.resolve(p)
	if err != nil {
		return "", "", err
	}

	if rel == "" {
		id, err := f.client.SpaceID(ctx, space)
		return space, id, err
	}

	id, err := f.client.LookupFileID(ctx, space, rel)
	return space, id, err
}

// GetXattr returns the value of a single extended attribute.
// Returns ErrNoAttribute when the attribute is not set.
func (f *FileSystem) GetXattr(ctx context.Context, p, name string) (string, error) {
	space, id, err := f.fileID(ctx, p)
	if err != nil {
		return "", err
	}

	xattrs, err := f.client.GetXattrs(ctx, space, id, name)
	if err != nil {
		return "", err
	}

	value, exists := xattrs[name]
	if !exists {
		return "", data.ErrNoAttribute
	}

	return value, nil
}

// SetXattr sets an extended attribute on the file at the given path.
func (f *FileSystem) SetXattr(ctx context.Context, p, name, value string) error {
	if f.options.ReadOnly {
		return data.ErrReadOnly
	}

	space, id, err := f.fileID(ctx, p)
	if err != nil {
		return err
	}

	return f.client.SetXattrs(ctx, space, id, map[string]string{name: value})
}

// ListXattrs returns the names of all extended attributes set on the file,
// sorted.
func (f *FileSystem) ListXattrs(ctx context.Context, p string) ([]string, error) {
	space, id, err := f.fileID(ctx, p)
	if err != nil {
		return nil, err
	}

	xattrs, err := f.client.GetXattrs(ctx, space, id)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(xattrs))
	for name := range xattrs {
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// RemoveXattr removes an extended attribute from the file at the given path.
// Returns ErrNoAttribute when the attribute is not set.
func (f *FileSystem) RemoveXattr(ctx context.Context, p, name string) error {
	if f.options.ReadOnly {
		return data.ErrReadOnly
	}

	space, id, err := f.fileID(ctx, p)
	if err != nil {
		return err
	}

	xattrs, err := f.client.GetXattrs(ctx, space, id, name)
	if err != nil {
		return err
	}
	if _, exists := xattrs[name]; !exists {
		return data.ErrNoAttribute
	}

	return f.client.RemoveXattrs(ctx, space, id, name)
}
