package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RecursiveSuffix marks a Go-style recursive directory pattern such as ./...
const RecursiveSuffix = "/..."

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, entry fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, entry fs.DirEntry) bool

// IsSourceFile reports whether a file name is a Go source file the generator
// reads: no tests, no hidden files and nothing starting with generatedPrefix
func IsSourceFile(name, generatedPrefix string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, ".") &&
		!strings.HasPrefix(name, "_") &&
		!strings.HasPrefix(name, generatedPrefix)
}

// SourceFileFilter accepts the files IsSourceFile accepts
func SourceFileFilter(generatedPrefix string) FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		return !entry.IsDir() && IsSourceFile(entry.Name(), generatedPrefix)
	}
}

// GeneratedFileFilter accepts Go files starting with generatedPrefix
func GeneratedFileFilter(generatedPrefix string) FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		return !entry.IsDir() &&
			strings.HasPrefix(entry.Name(), generatedPrefix) &&
			strings.HasSuffix(entry.Name(), ".go")
	}
}

// DefaultDirectoryFilter skips directories that never hold package sources
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"testdata":     true,
		"node_modules": true,
	}

	return func(path string, entry fs.DirEntry) bool {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		if strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// FileProcessor finds package directories and generated files below a set of
// roots, honoring doublestar exclude patterns
type FileProcessor struct {
	generatedPrefix string
	excludes        []string
	dirFilter       DirectoryFilter
}

// NewFileProcessor creates a file processor. Exclude patterns are matched
// against slash-separated paths relative to each scanned root.
func NewFileProcessor(generatedPrefix string, excludes ...string) (*FileProcessor, error) {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return &FileProcessor{
		generatedPrefix: generatedPrefix,
		excludes:        excludes,
		dirFilter:       DefaultDirectoryFilter(),
	}, nil
}

// SplitPattern splits a directory argument into its base directory and
// whether it asks for recursion
func SplitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if !strings.HasSuffix(pattern, RecursiveSuffix) {
		return pattern, false
	}

	base := strings.TrimSuffix(pattern, RecursiveSuffix)
	if base == "" {
		base = "."
	}
	return base, true
}

// Excluded reports whether rel, a path relative to a scan root, matches an
// exclude pattern
func (fp *FileProcessor) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range fp.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ScanPackageDirs returns the absolute, sorted and de-duplicated directories
// below patterns that hold Go source files
func (fp *FileProcessor) ScanPackageDirs(patterns []string) ([]string, error) {
	return fp.collect(patterns, func(dir string, entries []fs.DirEntry, out *[]string) {
		filter := SourceFileFilter(fp.generatedPrefix)
		for _, entry := range entries {
			if filter(filepath.Join(dir, entry.Name()), entry) {
				*out = append(*out, dir)
				return
			}
		}
	})
}

// ScanDirs returns every directory below patterns that a scan would enter
func (fp *FileProcessor) ScanDirs(patterns []string) ([]string, error) {
	return fp.collect(patterns, func(dir string, _ []fs.DirEntry, out *[]string) {
		*out = append(*out, dir)
	})
}

// FindGeneratedFiles returns the generated files below patterns, sorted
func (fp *FileProcessor) FindGeneratedFiles(patterns []string) ([]string, error) {
	return fp.collect(patterns, func(dir string, entries []fs.DirEntry, out *[]string) {
		filter := GeneratedFileFilter(fp.generatedPrefix)
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if filter(path, entry) {
				*out = append(*out, path)
			}
		}
	})
}

// RemoveFiles deletes files and returns the ones actually removed
func (fp *FileProcessor) RemoveFiles(paths []string) ([]string, error) {
	var removed []string
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, WrapRemoveError(path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

type visitFunc func(dir string, entries []fs.DirEntry, out *[]string)

func (fp *FileProcessor) collect(patterns []string, visit visitFunc) ([]string, error) {
	var out []string
	visited := make(map[string]bool) // value reports whether the directory was descended into

	for _, pattern := range patterns {
		base, recursive := SplitPattern(pattern)
		root, err := filepath.Abs(base)
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("path %s", base), err)
		}

		stat, err := os.Stat(root)
		if err != nil {
			return nil, WrapReadError(fmt.Sprintf("directory %s", base), err)
		}
		if !stat.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", base)
		}

		if err := fp.walk(root, root, recursive, visited, visit, &out); err != nil {
			return nil, err
		}
	}

	sort.Strings(out)
	return out, nil
}

func (fp *FileProcessor) walk(root, dir string, recursive bool, visited map[string]bool, visit visitFunc, out *[]string) error {
	descended, seen := visited[dir]
	if seen && (descended || !recursive) {
		return nil
	}
	visited[dir] = recursive

	entries, err := os.ReadDir(dir)
	if err != nil {
		return WrapReadError(fmt.Sprintf("directory %s", dir), err)
	}

	if !seen {
		visit(dir, entries, out)
	}
	if !recursive {
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if !fp.dirFilter(path, entry) {
			continue
		}
		if rel, err := filepath.Rel(root, path); err == nil && fp.Excluded(rel) {
			continue
		}
		// nested modules are not part of ./...
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			continue
		}

		if err := fp.walk(root, path, recursive, visited, visit, out); err != nil {
			return err
		}
	}
	return nil
}
