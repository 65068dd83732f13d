package pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// DefaultSearchLimit caps how many files one search returns
const DefaultSearchLimit = 100

// FileInfo describes one PDF found by a search
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
	DocumentType string `json:"document_type,omitempty"`
}

// PDFSearchDirectoryRequest searches the served directory for PDF files.
// When DocumentType is set every candidate is inspected and only files of
// that type are returned.
type PDFSearchDirectoryRequest struct {
	Directory    string `json:"directory"`
	Query        string `json:"query"`
	DocumentType string `json:"document_type,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// PDFSearchDirectoryResult lists the files that matched
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
	Truncated   bool       `json:"truncated,omitempty"`
}

// SearchDirectory walks a directory below the configured one and lists the
// PDF files whose name matches the query.
func (s *Service) SearchDirectory(ctx context.Context, req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}
	root, err := s.pathValidator.Resolve(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", req.Directory)
	}

	limit := req.Limit
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}
	query := strings.ToLower(strings.TrimSpace(req.Query))

	result := &PDFSearchDirectoryResult{
		Files:       []FileInfo{},
		Directory:   root,
		SearchQuery: req.Query,
	}

	errLimit := errors.New("limit reached")
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !isPDFFile(d.Name()) || !matchesQuery(d.Name(), query) {
			return nil
		}
		if s.pathValidator.ValidatePath(path) != nil {
			return nil
		}

		fi, err := d.Info()
		if err != nil || fi.Size() == 0 || fi.Size() > s.maxFileSize {
			return nil //nolint:nilerr // unusable files are skipped
		}

		entry := FileInfo{
			Path:         path,
			Name:         d.Name(),
			Size:         fi.Size(),
			ModifiedTime: fi.ModTime().Format("2006-01-02 15:04:05"),
		}

		if req.DocumentType != "" {
			inspected, err := s.InspectFile(ctx, PDFInspectFileRequest{Path: path})
			if err != nil || !strings.EqualFold(inspected.DocumentType, req.DocumentType) {
				return nil //nolint:nilerr // unreadable documents never match a type
			}
			entry.DocumentType = inspected.DocumentType
		}

		if len(result.Files) == limit {
			result.Truncated = true
			return errLimit
		}
		result.Files = append(result.Files, entry)
		return nil
	})
	if err != nil && !errors.Is(err, errLimit) {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	result.TotalCount = len(result.Files)
	return result, nil
}

func isPDFFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// matchesQuery reports whether every word of query occurs in a word of the
// file name. query must already be lower case.
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if strings.Contains(name, query) {
		return true
	}

	words := splitIntoWords(name)
	for _, queryWord := range splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
