// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest joins a directory tree of converter outputs against a
// clinical trial manifest, producing one consolidated index CSV. Samples
// missing from the reference manifest are skipped with a warning; a run
// that joins nothing at all is an error.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/quip-tools/pkg/types"
)

// Key columns of the reference manifest. The composite join key is
// {clinicaltrialsubjectid}-{imageid}, matching the converter's per-sample
// directory naming.
const (
	subjectColumn = "clinicaltrialsubjectid"
	imageColumn   = "imageid"
)

// ErrNoRows indicates that no subdirectory matched the reference manifest,
// so there is nothing to write. Distinct from precondition failures: the
// inputs existed, the join was just empty.
var ErrNoRows = errors.New("no joinable rows found")

// RefTable is a reference manifest indexed by composite key. Column order
// is preserved from the source CSV; on duplicate keys the first row wins.
type RefTable struct {
	columns []string
	rows    map[string][]string
}

// LoadRefTable reads the reference manifest CSV at path. The header must
// contain the clinicaltrialsubjectid and imageid columns.
func LoadRefTable(path string) (*RefTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference manifest: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading reference manifest %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reference manifest %s is empty", path)
	}

	header := records[0]
	subjectIdx, imageIdx := -1, -1
	for i, col := range header {
		switch col {
		case subjectColumn:
			subjectIdx = i
		case imageColumn:
			imageIdx = i
		}
	}
	if subjectIdx < 0 {
		return nil, fmt.Errorf("reference manifest %s has no %s column", path, subjectColumn)
	}
	if imageIdx < 0 {
		return nil, fmt.Errorf("reference manifest %s has no %s column", path, imageColumn)
	}

	t := &RefTable{
		columns: header,
		rows:    make(map[string][]string, len(records)-1),
	}
	for _, rec := range records[1:] {
		key := rec[subjectIdx] + "-" + rec[imageIdx]
		if _, exists := t.rows[key]; !exists {
			t.rows[key] = rec
		}
	}
	return t, nil
}

// Columns returns the manifest's column names in source order.
func (t *RefTable) Columns() []string {
	return t.columns
}

// Lookup returns the manifest row for a composite key.
func (t *RefTable) Lookup(key string) ([]string, bool) {
	row, ok := t.rows[key]
	return row, ok
}

// Run joins the converter output tree under cfg.InputDir against the
// reference manifest and writes the combined CSV to cfg.OutputPath. Each
// entry inside a matched {subjectId}-{caseId} subdirectory yields one row:
// the manifest columns plus a path column. Progress and warnings go to w.
// When nothing joins, Run returns ErrNoRows and writes no output file.
func Run(cfg types.ManifestConfig, w io.Writer) error {
	ref, err := LoadRefTable(cfg.RefManifestPath)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("reading input directory: %w", err)
	}

	var sampleDirs []string
	for _, e := range entries {
		if e.IsDir() {
			sampleDirs = append(sampleDirs, e.Name())
		}
	}
	fmt.Fprintf(w, "Found %d subject-case pairs\n", len(sampleDirs))

	var rows [][]string
	for _, sample := range sampleDirs {
		fmt.Fprintf(w, "Working on %s ...\n", sample)

		refRow, ok := ref.Lookup(sample)
		if !ok {
			fmt.Fprintf(w, "[WARNING] manifest does not contain %s\n", sample)
			fmt.Fprintln(w, "[WARNING] skipping...")
			continue
		}

		files, err := os.ReadDir(filepath.Join(cfg.InputDir, sample))
		if err != nil {
			return fmt.Errorf("reading sample directory %s: %w", sample, err)
		}
		for _, file := range files {
			path := filepath.Join(cfg.InputDir, sample, file.Name())
			fmt.Fprintf(w, "  %s\n", path)
			row := append(append([]string{}, refRow...), path)
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return ErrNoRows
	}

	fmt.Fprintf(w, "Writing manifest to %s\n", cfg.OutputPath)
	header := append(append([]string{}, ref.Columns()...), "path")
	return writeCSV(cfg.OutputPath, header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output CSV: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
