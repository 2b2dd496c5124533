package data

import "testing"

func TestCleanPath(t *testing.T) {
	cases := map[string]string{
		"":               "/",
		"/":              "/",
		"foo":            "/foo",
		"/foo/":          "/foo",
		"/foo//bar":      "/foo/bar",
		"/foo/./bar":     "/foo/bar",
		"/foo/../bar":    "/bar",
		"foo/bar/../baz": "/foo/baz",
	}

	for input, expected := range cases {
		if got := CleanPath(input); got != expected {
			t.Errorf("CleanPath(%q): expected %q, got %q", input, expected, got)
		}
	}
}

func TestIsRoot(t *testing.T) {
	if !IsRoot("") || !IsRoot("/") {
		t.Error("Expected empty path and '/' to be root")
	}
	if IsRoot("/foo") {
		t.Error("Expected '/foo' to not be root")
	}
}

func TestSplitSpacePath(t *testing.T) {
	space, rel, err := SplitSpacePath("/alpha/docs/readme.txt")
	if err != nil {
		t.Fatalf("SplitSpacePath failed: %v", err)
	}
	if space != "alpha" || rel != "docs/readme.txt" {
		t.Errorf("Expected (alpha, docs/readme.txt), got (%s, %s)", space, rel)
	}

	// A bare space name yields an empty relative path.
	space, rel, err = SplitSpacePath("/alpha")
	if err != nil {
		t.Fatalf("SplitSpacePath failed: %v", err)
	}
	if space != "alpha" || rel != "" {
		t.Errorf("Expected (alpha, ''), got (%s, %s)", space, rel)
	}

	// The root itself cannot be split.
	if _, _, err := SplitSpacePath("/"); err != ErrInvalidPath {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}
	if _, _, err := SplitSpacePath(""); err != ErrInvalidPath {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}
}

func TestJoinSpacePath(t *testing.T) {
	if got := JoinSpacePath("alpha", "docs/readme.txt"); got != "/alpha/docs/readme.txt" {
		t.Errorf("Expected '/alpha/docs/readme.txt', got %q", got)
	}
	if got := JoinSpacePath("alpha", ""); got != "/alpha" {
		t.Errorf("Expected '/alpha', got %q", got)
	}
}

func TestSplitJoinRoundtrip(t *testing.T) {
	paths := []string{"/alpha", "/alpha/file.txt", "/alpha/a/b/c"}

	for _, p := range paths {
		space, rel, err := SplitSpacePath(p)
		if err != nil {
			t.Fatalf("SplitSpacePath(%q) failed: %v", p, err)
		}
		if got := JoinSpacePath(space, rel); got != p {
			t.Errorf("Roundtrip of %q produced %q", p, got)
		}
	}
}
