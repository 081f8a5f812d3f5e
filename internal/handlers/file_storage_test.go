package handlers

import (
	"path/filepath"
	"testing"
)

func TestResolveStoragePathPlainName(t *testing.T) {
	target, err := resolveStoragePath("upload-dir", "notes.pdf")
	if err != nil {
		t.Fatalf("resolveStoragePath returned error: %v", err)
	}
	if target != filepath.Join("upload-dir", "notes.pdf") {
		t.Fatalf("unexpected target path: %s", target)
	}
}

func TestResolveStoragePathRejectsTraversal(t *testing.T) {
	cases := []string{"../etc/passwd", "..", "a/../../b", ""}
	for _, name := range cases {
		if _, err := resolveStoragePath("upload-dir", name); err == nil {
			t.Fatalf("expected error for unsafe name %q", name)
		}
	}
}

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("parsePaginationParams returned error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsRejectsBadValues(t *testing.T) {
	for _, c := range [][2]string{{"0", "10"}, {"abc", "10"}, {"1", "-5"}} {
		if _, _, err := parsePaginationParams(c[0], c[1]); err == nil {
			t.Fatalf("expected error for page=%q limit=%q", c[0], c[1])
		}
	}
}
