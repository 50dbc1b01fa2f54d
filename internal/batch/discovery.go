package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

// documentExtensions lists the file formats the pipeline can decode.
var documentExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// discoverDocumentFiles finds all document files matching the given patterns.
func discoverDocumentFiles(args []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var documentFiles []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			files, err := discoverInDirectory(arg, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			documentFiles = append(documentFiles, files...)
		} else if shouldIncludeFile(arg, includePatterns, excludePatterns) {
			documentFiles = append(documentFiles, arg)
		}
	}

	return documentFiles, nil
}

// discoverInDirectory discovers document files in a directory.
func discoverInDirectory(dir string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}

		return nil
	}

	return files, filepath.Walk(dir, walkFn)
}

// shouldIncludeFile determines if a file should be included based on
// its extension and the include/exclude patterns.
func shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if !documentExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}

	// Check exclude patterns first
	if matchesAnyPattern(path, excludePatterns) {
		return false
	}

	// If no include patterns, include all (that aren't excluded)
	if len(includePatterns) == 0 {
		return true
	}

	return matchesAnyPattern(path, includePatterns)
}

// matchesAnyPattern checks if a file path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// buildItems maps discovered files to verification items. The file stem
// names the document type; a parent directory other than the batch root
// names the student. Files whose stem is not a known document type are
// skipped with a warning.
func buildItems(files, roots []string, config *Config) ([]Item, error) {
	rootSet := make(map[string]bool, len(roots))
	for _, r := range roots {
		rootSet[filepath.Clean(r)] = true
	}

	var items []Item
	for _, path := range files {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		docType, err := document.ParseType(stem)
		if err != nil {
			slog.Warn("skipping file with unrecognized name", "file", path)
			continue
		}

		studentID := config.StudentID
		parent := filepath.Clean(filepath.Dir(path))
		if !rootSet[parent] {
			studentID = filepath.Base(parent)
		}

		items = append(items, Item{Path: path, StudentID: studentID, DocType: docType})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no files named after a document type (e.g. aadhaar.png, latest_sem_memo.pdf)")
	}
	return items, nil
}
