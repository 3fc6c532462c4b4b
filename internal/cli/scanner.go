package cli

import (
	"github.com/toyz/measuregen/internal/models"
	"github.com/toyz/measuregen/internal/utils"
)

// DirectoryScanner handles directory scanning for Go packages
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a scanner that skips directories matching any
// of the exclude patterns
func NewDirectoryScanner(excludes ...string) (*DirectoryScanner, error) {
	fp, err := utils.NewFileProcessor(models.WrapperFilePrefix, excludes...)
	if err != nil {
		return nil, err
	}
	return &DirectoryScanner{fileProcessor: fp}, nil
}

// ScanDirectories returns the directories holding Go packages. Supports
// Go-style patterns like "./..." for recursive scanning.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	return s.fileProcessor.ScanPackageDirs(patterns)
}

// WatchDirectories returns every directory a scan of patterns enters,
// including those that do not hold Go files yet
func (s *DirectoryScanner) WatchDirectories(patterns []string) ([]string, error) {
	return s.fileProcessor.ScanDirs(patterns)
}

// GeneratedFiles returns wrapper files below patterns
func (s *DirectoryScanner) GeneratedFiles(patterns []string) ([]string, error) {
	return s.fileProcessor.FindGeneratedFiles(patterns)
}

// IsSourceFile reports whether a change to the named file can affect generation
func (s *DirectoryScanner) IsSourceFile(name string) bool {
	return utils.IsSourceFile(name, models.WrapperFilePrefix)
}

func (s *DirectoryScanner) remove(paths []string) ([]string, error) {
	return s.fileProcessor.RemoveFiles(paths)
}
