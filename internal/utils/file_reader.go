package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileReader reads small text files such as go.mod and config files,
// remembering their content for the lifetime of the reader
type FileReader struct {
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewCache[string, string](),
	}
}

// ReadFile reads a file and returns its contents as a string with caching
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := cleanFilePath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contentCache.Get(cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	contentStr := string(content)
	fr.contentCache.Set(cleanPath, contentStr)
	return contentStr, nil
}

// Exists reports whether a regular file exists at filePath
func (fr *FileReader) Exists(filePath string) bool {
	cleanPath, err := cleanFilePath(filePath)
	if err != nil {
		return false
	}
	if _, cached := fr.contentCache.Get(cleanPath); cached {
		return true
	}
	info, err := os.Stat(cleanPath)
	return err == nil && info.Mode().IsRegular()
}

func cleanFilePath(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	return filepath.Clean(filePath), nil
}
