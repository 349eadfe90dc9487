package utils

import (
	"path/filepath"
	"strings"
)

// SplitNonEmpty Splits a comma separated list, dropping blank entries
func SplitNonEmpty(csv string) []string {
	array := strings.Split(csv, ",")
	adjusted := make([]string, 0)
	for _, each := range array {
		trimmed := strings.TrimSpace(each)
		if trimmed != "" {
			adjusted = append(adjusted, trimmed)
		}
	}
	return adjusted
}

// SplitAssignment Splits `key=value`, trimming the key
func SplitAssignment(s string) (string, string, bool) {
	key, value, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	return key, value, true
}

// FriendlyFileName The file name with at most its parent directory, for log messages
func FriendlyFileName(path string) string {
	dir, file := filepath.Split(filepath.Clean(path))
	parent := filepath.Base(dir)
	if dir == "" || parent == "." || parent == string(filepath.Separator) {
		return file
	}
	return filepath.Join(parent, file)
}
