package client_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mwantia/onedatafs/client"
	"github.com/mwantia/onedatafs/data"
	"github.com/mwantia/onedatafs/internal/testserver"
)

func newTestClient(t *testing.T, opts ...client.Option) (*testserver.Server, *client.Client) {
	srv := testserver.New("secret")
	t.Cleanup(srv.Close)

	opts = append([]client.Option{client.WithInsecure()}, opts...)
	c, err := client.New(srv.Host(), "secret", opts...)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	return srv, c
}

func TestClient_New(t *testing.T) {
	if _, err := client.New("", "token"); err == nil {
		t.Error("Expected error for empty zone host")
	}

	if _, err := client.New("zone.example.com", ""); err == nil {
		t.Error("Expected error for empty token")
	}

	if _, err := client.New("zone.example.com", "token"); err != nil {
		t.Errorf("New failed: %v", err)
	}
}

func TestClient_ListSpaces(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("beta")
	srv.AddSpace("alpha")

	spaces, err := c.ListSpaces(context.Background())
	if err != nil {
		t.Fatalf("ListSpaces failed: %v", err)
	}

	if len(spaces) != 2 || spaces[0] != "alpha" || spaces[1] != "beta" {
		t.Errorf("Expected sorted [alpha beta], got %v", spaces)
	}
}

func TestClient_SpaceID(t *testing.T) {
	srv, c := newTestClient(t)
	id := srv.AddSpace("alpha")

	resolved, err := c.SpaceID(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("SpaceID failed: %v", err)
	}
	if resolved != id {
		t.Errorf("Expected space id %q, got %q", id, resolved)
	}

	if _, err := c.SpaceID(context.Background(), "missing"); !errors.Is(err, data.ErrNoSpace) {
		t.Errorf("Expected ErrNoSpace, got %v", err)
	}
}

func TestClient_LookupFileID(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("alpha")
	srv.WriteFile("alpha", "docs/readme.txt", []byte("hello"))

	id, err := c.LookupFileID(context.Background(), "alpha", "docs/readme.txt")
	if err != nil {
		t.Fatalf("LookupFileID failed: %v", err)
	}
	if id == "" {
		t.Error("Expected non-empty file id")
	}

	if _, err := c.LookupFileID(context.Background(), "alpha", "missing.txt"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

func TestClient_GetAttributes(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("alpha")
	srv.WriteFile("alpha", "file.txt", []byte("some content"))
	srv.Mkdir("alpha", "subdir")

	attrs, err := c.GetAttributes(context.Background(), "alpha", "file.txt")
	if err != nil {
		t.Fatalf("GetAttributes failed: %v", err)
	}

	if attrs.Name != "file.txt" {
		t.Errorf("Expected name 'file.txt', got %q", attrs.Name)
	}
	if attrs.Size != 12 {
		t.Errorf("Expected size 12, got %d", attrs.Size)
	}
	if data.FileTypeFromString(attrs.Type) != data.FileTypeRegular {
		t.Errorf("Expected regular file, got %q", attrs.Type)
	}

	dirAttrs, err := c.GetAttributes(context.Background(), "alpha", "subdir")
	if err != nil {
		t.Fatalf("GetAttributes on directory failed: %v", err)
	}
	if data.FileTypeFromString(dirAttrs.Type) != data.FileTypeDirectory {
		t.Errorf("Expected directory, got %q", dirAttrs.Type)
	}

	// Empty path refers to the space root.
	rootAttrs, err := c.GetAttributes(context.Background(), "alpha", "")
	if err != nil {
		t.Fatalf("GetAttributes on space root failed: %v", err)
	}
	if data.FileTypeFromString(rootAttrs.Type) != data.FileTypeDirectory {
		t.Errorf("Expected directory for space root, got %q", rootAttrs.Type)
	}
}

func TestClient_ReadDirPagination(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("alpha")

	count := 25
	for i := 0; i < count; i++ {
		srv.WriteFile("alpha", fmt.Sprintf("file%02d.txt", i), []byte("x"))
	}

	var names []string
	token := ""
	pages := 0
	for {
		page, err := c.ReadDir(context.Background(), "alpha", "", 10, token)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		pages++

		for _, child := range page.Children {
			names = append(names, child.Name)
		}

		if page.IsLast {
			break
		}
		token = page.NextPageToken
	}

	if pages != 3 {
		t.Errorf("Expected 3 pages, got %d", pages)
	}
	if len(names) != count {
		t.Fatalf("Expected %d entries, got %d", count, len(names))
	}

	for i, name := range names {
		expected := fmt.Sprintf("file%02d.txt", i)
		if name != expected {
			t.Errorf("Entry %d: expected %q, got %q", i, expected, name)
		}
	}
}

func TestClient_ContentRoundtrip(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("alpha")

	id, err := c.CreateFile(context.Background(), "alpha", "data.bin", data.FileTypeRegular, false)
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	content := []byte("the quick brown fox")
	if _, err := c.WriteContent(context.Background(), "alpha", id, 0, content); err != nil {
		t.Fatalf("WriteContent failed: %v", err)
	}

	buf := make([]byte, len(content))
	n, err := c.ReadContent(context.Background(), "alpha", id, 0, buf)
	if err != nil {
		t.Fatalf("ReadContent failed: %v", err)
	}
	if !bytes.Equal(buf[:n], content) {
		t.Errorf("Expected %q, got %q", content, buf[:n])
	}

	// Ranged read from the middle.
	buf = make([]byte, 5)
	n, err = c.ReadContent(context.Background(), "alpha", id, 4, buf)
	if err != nil {
		t.Fatalf("Ranged ReadContent failed: %v", err)
	}
	if string(buf[:n]) != "quick" {
		t.Errorf("Expected 'quick', got %q", buf[:n])
	}

	// Overwrite in the middle at an offset.
	if _, err := c.WriteContent(context.Background(), "alpha", id, 4, []byte("QUICK")); err != nil {
		t.Fatalf("Offset WriteContent failed: %v", err)
	}
	if got := srv.Content("alpha", "data.bin"); string(got) != "the QUICK brown fox" {
		t.Errorf("Expected overwritten content, got %q", got)
	}
}

func TestClient_Truncate(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("alpha")
	srv.WriteFile("alpha", "trunc.txt", []byte("original content"))

	id, err := c.LookupFileID(context.Background(), "alpha", "trunc.txt")
	if err != nil {
		t.Fatalf("LookupFileID failed: %v", err)
	}

	if err := c.TruncateFile(context.Background(), "alpha", id, 8); err != nil {
		t.Fatalf("TruncateFile failed: %v", err)
	}
	if got := srv.Content("alpha", "trunc.txt"); string(got) != "original" {
		t.Errorf("Expected 'original', got %q", got)
	}

	// Growing pads with zeros.
	if err := c.TruncateFile(context.Background(), "alpha", id, 10); err != nil {
		t.Fatalf("TruncateFile grow failed: %v", err)
	}

	attrs, err := c.GetAttributesByID(context.Background(), "alpha", id)
	if err != nil {
		t.Fatalf("GetAttributesByID failed: %v", err)
	}
	if attrs.Size != 10 {
		t.Errorf("Expected size 10, got %d", attrs.Size)
	}
}

func TestClient_CreateAndRemove(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("alpha")

	if _, err := c.CreateFile(context.Background(), "alpha", "a/b/file.txt", data.FileTypeRegular, false); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist without create_parents, got %v", err)
	}

	if _, err := c.CreateFile(context.Background(), "alpha", "a/b/file.txt", data.FileTypeRegular, true); err != nil {
		t.Fatalf("CreateFile with parents failed: %v", err)
	}
	if !srv.Exists("alpha", "a/b/file.txt") {
		t.Error("File should exist after creation")
	}

	if _, err := c.CreateFile(context.Background(), "alpha", "a/b/file.txt", data.FileTypeRegular, false); !errors.Is(err, data.ErrExist) {
		t.Errorf("Expected ErrExist, got %v", err)
	}

	if err := c.Remove(context.Background(), "alpha", "a/b/file.txt"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if srv.Exists("alpha", "a/b/file.txt") {
		t.Error("File should be gone after removal")
	}

	if _, err := c.LookupFileID(context.Background(), "alpha", "a/b/file.txt"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist after removal, got %v", err)
	}
}

func TestClient_Move(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("alpha")
	srv.Mkdir("alpha", "dst")
	srv.WriteFile("alpha", "src.txt", []byte("payload"))

	if err := c.Move(context.Background(), "alpha", "src.txt", "alpha", "dst/moved.txt"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if srv.Exists("alpha", "src.txt") {
		t.Error("Source should be gone after move")
	}
	if got := srv.Content("alpha", "dst/moved.txt"); string(got) != "payload" {
		t.Errorf("Expected moved content, got %q", got)
	}
}

func TestClient_MoveAcrossSpaces(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("alpha")
	srv.AddSpace("beta")
	srv.WriteFile("alpha", "src.txt", []byte("payload"))

	if err := c.Move(context.Background(), "alpha", "src.txt", "beta", "dst.txt"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if srv.Exists("alpha", "src.txt") {
		t.Error("Source should be gone after move")
	}
	if got := srv.Content("beta", "dst.txt"); string(got) != "payload" {
		t.Errorf("Expected moved content, got %q", got)
	}
}

func TestClient_Xattrs(t *testing.T) {
	srv, c := newTestClient(t)
	srv.AddSpace("alpha")
	srv.WriteFile("alpha", "file.txt", []byte("x"))

	id, err := c.LookupFileID(context.Background(), "alpha", "file.txt")
	if err != nil {
		t.Fatalf("LookupFileID failed: %v", err)
	}

	if err := c.SetXattrs(context.Background(), "alpha", id, map[string]string{"user.tag": "value"}); err != nil {
		t.Fatalf("SetXattrs failed: %v", err)
	}

	xattrs, err := c.GetXattrs(context.Background(), "alpha", id)
	if err != nil {
		t.Fatalf("GetXattrs failed: %v", err)
	}
	if xattrs["user.tag"] != "value" {
		t.Errorf("Expected 'value', got %q", xattrs["user.tag"])
	}

	if err := c.RemoveXattrs(context.Background(), "alpha", id, "user.tag"); err != nil {
		t.Fatalf("RemoveXattrs failed: %v", err)
	}

	xattrs, err = c.GetXattrs(context.Background(), "alpha", id)
	if err != nil {
		t.Fatalf("GetXattrs after removal failed: %v", err)
	}
	if len(xattrs) != 0 {
		t.Errorf("Expected no attributes, got %v", xattrs)
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	srv, c := newTestClient(t, client.WithRetries(3))
	srv.AddSpace("alpha")
	srv.FailNext(2)

	spaces, err := c.ListSpaces(context.Background())
	if err != nil {
		t.Fatalf("Expected retry to recover, got %v", err)
	}
	if len(spaces) != 1 || spaces[0] != "alpha" {
		t.Errorf("Expected [alpha], got %v", spaces)
	}
}

func TestClient_RetriesExhausted(t *testing.T) {
	srv, c := newTestClient(t, client.WithRetries(1))
	srv.AddSpace("alpha")
	srv.FailNext(5)

	if _, err := c.ListSpaces(context.Background()); err == nil {
		t.Error("Expected error after exhausting retries")
	}
}

func TestClient_AuthFailure(t *testing.T) {
	srv := testserver.New("secret")
	t.Cleanup(srv.Close)

	c, err := client.New(srv.Host(), "wrong-token", client.WithInsecure())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if _, err := c.ListSpaces(context.Background()); !errors.Is(err, data.ErrPermission) {
		t.Errorf("Expected ErrPermission, got %v", err)
	}
}
