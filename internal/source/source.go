// Package source reads URL lists from CSV files.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadURLs reads the named column of a header-first CSV document. Rows whose
// cell is empty are skipped. Reading stops once limit URLs have been
// collected; a non-positive limit reads everything.
func ReadURLs(r io.Reader, column string, limit int) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("source: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("source: read header: %w", err)
	}

	col := -1
	for i, name := range header {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("source: column %q not found", column)
	}

	urls := []string{}
	for limit <= 0 || len(urls) < limit {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source: read row: %w", err)
		}
		if col >= len(record) || record[col] == "" {
			continue
		}
		urls = append(urls, record[col])
	}
	return urls, nil
}

// ReadURLsFile is ReadURLs on the file at path.
func ReadURLsFile(path, column string, limit int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	defer f.Close()

	urls, err := ReadURLs(f, column, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return urls, nil
}
