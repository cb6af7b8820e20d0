package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileAssertions provides utilities for asserting file system state in tests
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{
		t:       t,
		baseDir: baseDir,
	}
}

func (fa *FileAssertions) path(relativePath string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(relativePath))
}

// AssertFileExists validates that a file exists
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(relativePath)); os.IsNotExist(err) {
		fa.t.Errorf("Expected file to exist: %s", relativePath)
	}
	return fa
}

// AssertFileNotExists validates that a file does not exist
func (fa *FileAssertions) AssertFileNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(relativePath)); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", relativePath)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content
func (fa *FileAssertions) AssertFileContains(relativePath, expectedContent string) *FileAssertions {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(relativePath))
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", relativePath, err)
		return fa
	}
	if !strings.Contains(string(content), expectedContent) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s",
			relativePath, expectedContent, string(content))
	}
	return fa
}

// AssertFileEquals validates that a file has exactly the expected content
func (fa *FileAssertions) AssertFileEquals(relativePath, expectedContent string) *FileAssertions {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(relativePath))
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", relativePath, err)
		return fa
	}
	if string(content) != expectedContent {
		fa.t.Errorf("Unexpected content in %s\nExpected:\n%s\nActual:\n%s",
			relativePath, expectedContent, string(content))
	}
	return fa
}

// GetFileContent reads and returns the content of a file
func (fa *FileAssertions) GetFileContent(relativePath string) string {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(relativePath))
	if err != nil {
		fa.t.Fatalf("Failed to read file %s: %v", relativePath, err)
	}
	return string(content)
}
