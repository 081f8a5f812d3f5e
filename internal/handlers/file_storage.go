package handlers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// resolveStoragePath maps an uploaded file name onto the storage directory,
// refusing anything that would escape it.
func resolveStoragePath(storageDir, fileName string) (string, error) {
	trimmed := strings.TrimSpace(fileName)
	if trimmed == "" {
		return "", fmt.Errorf("empty file name")
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")
	if cleanRel == "" || cleanRel == "." || strings.Contains(cleanRel, "..") {
		return "", fmt.Errorf("refusing unsafe file name: %s", fileName)
	}

	cleanBase := filepath.Clean(storageDir)
	target := filepath.Clean(filepath.Join(cleanBase, filepath.FromSlash(cleanRel)))
	if target != cleanBase && !strings.HasPrefix(target, cleanBase+string(os.PathSeparator)) {
		return "", fmt.Errorf("refusing path outside storage dir: %s", fileName)
	}

	return target, nil
}

// safeDeleteUpload removes a stored file, tolerating files already gone.
func safeDeleteUpload(storageDir, fileName string) error {
	target, err := resolveStoragePath(storageDir, fileName)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
