package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// File extensions left behind by interrupted downloads
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp"}
)

var unsafeLabelChars = regexp.MustCompile(`[^\w\-.]`)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// ReplaceExtension returns path with its extension replaced by ext
// (given with or without the leading dot)
func ReplaceExtension(path, ext string) string {
	ext = "." + strings.TrimPrefix(ext, ".")
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// SanitizeLabel makes a clip label safe for use in a filename
func SanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	label = unsafeLabelChars.ReplaceAllString(label, "_")
	return strings.Trim(label, ".")
}

// FindByPrefix returns the completed file in dir whose name starts with prefix.
// Partial download artifacts are ignored. With several candidates the most
// recently modified wins.
func FindByPrefix(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var candidates []candidate

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if isPartialFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path: filepath.Join(dir, entry.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("file not found: %s*", filepath.Join(dir, prefix))
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].mod > candidates[j].mod
	})
	return candidates[0].path, nil
}

// RemoveFiles removes the given files, ignoring the ones that do not exist
func RemoveFiles(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveByPrefix removes every file in dir whose name starts with prefix,
// partial download artifacts included. A missing dir is not an error.
func RemoveByPrefix(dir, prefix string) error {
	if prefix == "" {
		return errors.New("empty prefix")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return RemoveFiles(paths...)
}

func isPartialFile(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
