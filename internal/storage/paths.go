// internal/storage/paths.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ScratchSubdir is the fixed directory name created under the temp root.
const ScratchSubdir = "streamstore"

// TempRoot returns the platform temp root. On darwin os.TempDir points at a
// per-user folder, so /tmp is used instead.
func TempRoot() string {
	if runtime.GOOS == "darwin" {
		return "/tmp"
	}
	return os.TempDir()
}

// ScratchDir resolves and creates the directory artifacts are written to.
// An empty dir means <temp root>/streamstore.
func ScratchDir(dir string) (string, error) {
	if dir == "" {
		dir = filepath.Join(TempRoot(), ScratchSubdir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("could not resolve scratch directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("could not create scratch directory: %w", err)
	}
	return abs, nil
}

// ArtifactPath returns the path of the artifact for a session label.
func ArtifactPath(dir, label string) (string, error) {
	if label == "" {
		return "", fmt.Errorf("invalid path: empty label")
	}
	cleanedRoot := filepath.Clean(dir)
	cleaned := filepath.Clean(filepath.Join(cleanedRoot, label))

	// --- SECURITY: Prevent Path Traversal ---
	if filepath.Dir(cleaned) != cleanedRoot || !strings.HasPrefix(cleaned, cleanedRoot) {
		return "", fmt.Errorf("invalid path: potential path traversal")
	}
	return cleaned, nil
}
