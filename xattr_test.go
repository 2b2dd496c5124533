package onedatafs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mwantia/onedatafs"
	"github.com/mwantia/onedatafs/data"
)

func TestXattr_SetGetRemove(t *testing.T) {
	srv, fs := newTestFS(t, onedatafs.WithSpace("alpha"))
	srv.AddSpace("alpha")
	srv.WriteFile("alpha", "file.txt", []byte("content"))

	if err := fs.SetXattr(context.Background(), "/file.txt", "user.project", "onedatafs"); err != nil {
		t.Fatalf("SetXattr failed: %v", err)
	}

	value, err := fs.GetXattr(context.Background(), "/file.txt", "user.project")
	if err != nil {
		t.Fatalf("GetXattr failed: %v", err)
	}
	if value != "onedatafs" {
		t.Errorf("Expected 'onedatafs', got %q", value)
	}

	// Overwriting keeps a single attribute.
	if err := fs.SetXattr(context.Background(), "/file.txt", "user.project", "updated"); err != nil {
		t.Fatalf("SetXattr overwrite failed: %v", err)
	}
	value, err = fs.GetXattr(context.Background(), "/file.txt", "user.project")
	if err != nil {
		t.Fatalf("GetXattr failed: %v", err)
	}
	if value != "updated" {
		t.Errorf("Expected 'updated', got %q", value)
	}

	if err := fs.RemoveXattr(context.Background(), "/file.txt", "user.project"); err != nil {
		t.Fatalf("RemoveXattr failed: %v", err)
	}

	if _, err := fs.GetXattr(context.Background(), "/file.txt", "user.project"); !errors.Is(err, data.ErrNoAttribute) {
		t.Errorf("Expected ErrNoAttribute after removal, got %v", err)
	}
}

func TestXattr_List(t *testing.T) {
	srv, fs := newTestFS(t, onedatafs.WithSpace("alpha"))
	srv.AddSpace("alpha")
	srv.WriteFile("alpha", "file.txt", []byte("content"))

	names, err := fs.ListXattrs(context.Background(), "/file.txt")
	if err != nil {
		t.Fatalf("ListXattrs failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected no attributes, got %v", names)
	}

	for _, name := range []string{"user.b", "user.a", "user.c"} {
		if err := fs.SetXattr(context.Background(), "/file.txt", name, "v"); err != nil {
			t.Fatalf("SetXattr %s failed: %v", name, err)
		}
	}

	names, err = fs.ListXattrs(context.Background(), "/file.txt")
	if err != nil {
		t.Fatalf("ListXattrs failed: %v", err)
	}

	expected := []string{"user.a", "user.b", "user.c"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d attributes, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Attribute %d: expected %q, got %q", i, expected[i], names[i])
		}
	}
}

func TestXattr_MissingTargets(t *testing.T) {
	srv, fs := newTestFS(t, onedatafs.WithSpace("alpha"))
	srv.AddSpace("alpha")
	srv.WriteFile("alpha", "file.txt", []byte("content"))
	srv.Mkdir("alpha", "dir")

	if _, err := fs.GetXattr(context.Background(), "/missing.txt", "user.tag"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}

	if err := fs.RemoveXattr(context.Background(), "/file.txt", "user.unset"); !errors.Is(err, data.ErrNoAttribute) {
		t.Errorf("Expected ErrNoAttribute, got %v", err)
	}

	// Directories carry xattrs too.
	if err := fs.SetXattr(context.Background(), "/dir", "user.tag", "v"); err != nil {
		t.Fatalf("SetXattr on directory failed: %v", err)
	}
	value, err := fs.GetXattr(context.Background(), "/dir", "user.tag")
	if err != nil {
		t.Fatalf("GetXattr on directory failed: %v", err)
	}
	if value != "v" {
		t.Errorf("Expected 'v', got %q", value)
	}

	// The space root accepts xattrs through its space id.
	if err := fs.SetXattr(context.Background(), "/", "user.root", "r"); err != nil {
		t.Fatalf("SetXattr on root failed: %v", err)
	}
	value, err = fs.GetXattr(context.Background(), "/", "user.root")
	if err != nil {
		t.Fatalf("GetXattr on root failed: %v", err)
	}
	if value != "r" {
		t.Errorf("Expected 'r', got %q", value)
	}
}
