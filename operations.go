package onedatafs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"sort"
	"strconv"

	"github.com/mwantia/onedatafs/cache"
	"github.com/mwantia/onedatafs/data"
)

// Directory listings are fetched in pages of this size.
const readDirLimit = 1000

// Stat returns file information for the given path.
// The root in global mode is the space list, a synthesized directory.
func (f *FileSystem) Stat(ctx context.Context, p string) (*data.FileInfo, error) {
	if !f.isSpaceRelative() && data.IsRoot(p) {
		return globalRootInfo(), nil
	}

	space, rel, err := f.resolve(p)
	if err != nil {
		return nil, err
	}

	key := cache.Key(space, rel)
	if info, ok := f.attrs.Get(key); ok {
		return info, nil
	}

	attrs, err := f.client.GetAttributes(ctx, space, rel)
	if err != nil {
		return nil, err
	}

	info := attrs.FileInfo(space, data.CleanPath(p))
	f.attrs.Put(key, info)

	return info, nil
}

// Exists checks whether a file or directory exists at the given path.
func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.Stat(ctx, p)
	if err != nil {
		if errors.Is(err, data.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// ReadDir lists directory contents for the given path, sorted by name.
// At the root in global mode it lists the accessible spaces.
func (f *FileSystem) ReadDir(ctx context.Context, p string) ([]*data.FileInfo, error) {
	if !f.isSpaceRelative() && data.IsRoot(p) {
		return f.listSpaces(ctx)
	}

	space, rel, err := f.resolve(p)
	if err != nil {
		return nil, err
	}

	dirPath := data.CleanPath(p)
	var entries []*data.FileInfo

	token := ""
	for {
		page, err := f.client.ReadDir(ctx, space, rel, readDirLimit, token)
		if err != nil {
			return nil, err
		}

		for _, child := range page.Children {
			childPath := path.Join(dirPath, child.Name)
			info := child.FileInfo(space, childPath)
			entries = append(entries, info)

			childRel := child.Name
			if rel != "" {
				childRel = rel + "/" + child.Name
			}
			f.attrs.Put(cache.Key(space, childRel), info)
		}

		if page.IsLast {
			break
		}
		token = page.NextPageToken
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

// globalRootInfo is the entry for the space-list root, which has no remote
// counterpart. It is constant so repeated stats agree with each other.
func globalRootInfo() *data.FileInfo {
	return &data.FileInfo{
		Path:     "/",
		Type:     data.FileTypeDirectory,
		FileMode: 0o555,
	}
}

// listSpaces lists the space roots as directory entries.
func (f *FileSystem) listSpaces(ctx context.Context) ([]*data.FileInfo, error) {
	spaces, err := f.client.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*data.FileInfo, 0, len(spaces))
	for _, space := range spaces {
		key := cache.Key(space, "")
		if info, ok := f.attrs.Get(key); ok {
			entries = append(entries, info)
			continue
		}

		attrs, err := f.client.GetAttributes(ctx, space, "")
		if err != nil {
			return nil, err
		}

		info := attrs.FileInfo(space, "/"+space)
		f.attrs.Put(key, info)
		entries = append(entries, info)
	}

	return entries, nil
}

// Spaces returns the names of all spaces the access token grants access to.
func (f *FileSystem) Spaces(ctx context.Context) ([]string, error) {
	return f.client.ListSpaces(ctx)
}

// Mkdir creates a directory at the given path.
func (f *FileSystem) Mkdir(ctx context.Context, p string) error {
	return f.mkdir(ctx, p, false)
}

// MkdirAll creates a directory at the given path along with any missing
// parents.
func (f *FileSystem) MkdirAll(ctx context.Context, p string) error {
	return f.mkdir(ctx, p, true)
}

func (f *FileSystem) mkdir(ctx context.Context, p string, parents bool) error {
	if f.options.ReadOnly {
		return data.ErrReadOnly
	}

	space, rel, err := f.resolve(p)
	if err != nil {
		return err
	}
	if rel == "" {
		// Spaces are provisioned through the Onezone, not with mkdir.
		return data.ErrInvalidPath
	}

	if _, err := f.client.CreateFile(ctx, space, rel, data.FileTypeDirectory, parents); err != nil {
		if parents && errors.Is(err, data.ErrExist) {
			return nil
		}
		return err
	}

	f.invalidate(space, rel)
	return nil
}

// Remove deletes the file at the given path.
// Returns ErrIsDirectory when the path refers to a directory.
func (f *FileSystem) Remove(ctx context.Context, p string) error {
	if f.options.ReadOnly {
		return data.ErrReadOnly
	}

	info, err := f.Stat(ctx, p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return data.ErrIsDirectory
	}

	space, rel, err := f.resolve(p)
	if err != nil {
		return err
	}

	if err := f.client.Remove(ctx, space, rel); err != nil {
		return err
	}

	f.invalidate(space, rel)
	return nil
}

// RemoveDir deletes the empty directory at the given path.
// Returns ErrNotDirectory for files and ErrDirectoryNotEmpty when the
// directory still has entries.
func (f *FileSystem) RemoveDir(ctx context.Context, p string) error {
	if f.options.ReadOnly {
		return data.ErrReadOnly
	}

	info, err := f.Stat(ctx, p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return data.ErrNotDirectory
	}

	space, rel, err := f.resolve(p)
	if err != nil {
		return err
	}

	page, err := f.client.ReadDir(ctx, space, rel, 1, "")
	if err != nil {
		return err
	}
	if len(page.Children) > 0 {
		return data.ErrDirectoryNotEmpty
	}

	if err := f.client.Remove(ctx, space, rel); err != nil {
		return err
	}

	f.invalidate(space, rel)
	return nil
}

// RemoveAll deletes the path and any children it contains.
// Removing a missing path is not an error.
func (f *FileSystem) RemoveAll(ctx context.Context, p string) error {
	if f.options.ReadOnly {
		return data.ErrReadOnly
	}

	space, rel, err := f.resolve(p)
	if err != nil {
		return err
	}

	if err := f.client.Remove(ctx, space, rel); err != nil {
		if errors.Is(err, data.ErrNotExist) {
			return nil
		}
		return err
	}

	f.invalidate(space, rel)
	return nil
}

// Chmod changes the permission bits of the file or directory at the given
// path. Bits outside fs.ModePerm are ignored.
func (f *FileSystem) Chmod(ctx context.Context, p string, mode fs.FileMode) error {
	if f.options.ReadOnly {
		return data.ErrReadOnly
	}

	space, rel, err := f.resolve(p)
	if err != nil {
		return err
	}

	octal := strconv.FormatUint(uint64(mode&fs.ModePerm), 8)
	if err := f.client.SetAttributes(ctx, space, rel, &data.AttributeUpdate{Mode: &octal}); err != nil {
		return err
	}

	f.invalidate(space, rel)
	return nil
}

// Rename moves a file or directory to a new path, across spaces if needed.
func (f *FileSystem) Rename(ctx context.Context, oldPath, newPath string) error {
	if f.options.ReadOnly {
		return data.ErrReadOnly
	}

	srcSpace, srcRel, err := f.resolve(oldPath)
	if err != nil {
		return err
	}
	dstSpace, dstRel, err := f.resolve(newPath)
	if err != nil {
		return err
	}
	if srcRel == "" || dstRel == "" {
		return data.ErrInvalidPath
	}

	if _, err := f.Stat(ctx, oldPath); err != nil {
		return err
	}

	if err := f.client.Move(ctx, srcSpace, srcRel, dstSpace, dstRel); err != nil {
		return err
	}

	f.invalidate(srcSpace, srcRel)
	f.invalidate(dstSpace, dstRel)
	return nil
}

// ReadFile reads the whole file at the given path.
func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	file, err := f.OpenFile(ctx, p, data.AccessModeRead)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// WriteFile replaces the contents of the file at the given path, creating it
// if necessary.
func (f *FileSystem) WriteFile(ctx context.Context, p string, content []byte) error {
	file, err := f.OpenFile(ctx, p, data.AccessModeWrite|data.AccessModeCreate|data.AccessModeTrunc)
	if err != nil {
		return err
	}

	if _, err := file.Write(content); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
