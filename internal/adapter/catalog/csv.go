package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"assessrec/internal/domain"
)

// Column layout of a catalog CSV shard. Header names are matched
// case-insensitively so exports from different tools load unchanged.
const (
	colName        = "assessment_name"
	colURL         = "assessment_url"
	colTestType    = "test_type"
	colDescription = "description"
	colCategory    = "category"
)

// LoadFiles loads all catalog CSV shards matching the given doublestar
// patterns, normalizes the records and returns a deduplicated store.
func LoadFiles(patterns []string) (*Store, error) {
	paths, err := expandPatterns(patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files match %v", patterns)
	}

	var records []domain.Assessment
	for _, path := range paths {
		shard, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", path, err)
		}
		records = append(records, shard...)
	}

	return NewStore(records), nil
}

func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		matches, err := doublestar.Glob(os.DirFS(base), rest)
		if err != nil {
			return nil, fmt.Errorf("bad catalog pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			full := filepath.Join(base, m)
			if !seen[full] {
				seen[full] = true
				paths = append(paths, full)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func loadFile(path string) ([]domain.Assessment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads catalog records from CSV data with a header row.
func Parse(r io.Reader) ([]domain.Assessment, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{colName, colURL} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []domain.Assessment
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := normalize(domain.Assessment{
			Name:        field(row, colName),
			URL:         field(row, colURL),
			TestType:    domain.TestType(field(row, colTestType)),
			Description: field(row, colDescription),
			Category:    field(row, colCategory),
		})
		if rec.URL == "" {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// normalize applies the catalog ingestion rules: trimmed fields, empty
// category becomes "General", unknown test types become K.
func normalize(a domain.Assessment) domain.Assessment {
	if a.Category == "" {
		a.Category = "General"
	}
	a.TestType = a.TestType.Normalize()
	return a
}
