// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog maintains a SQLite index of converter output trees: one
// record per (sample, class) pair, built by scanning algmeta documents and
// their paired feature tables. The catalog answers "what has been converted,
// for which subjects, with how many detections" without re-reading the
// feature files.
package catalog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/quip-tools/pkg/types"
)

// ErrNoRecords indicates a build that found nothing to catalog.
var ErrNoRecords = errors.New("no catalog records found")

// Record is one cataloged (sample, class) pair.
type Record struct {
	Sample       string
	Class        int
	FeaturesPath string
	AlgmetaPath  string
	Detections   int
	SubjectID    string
	CaseID       string
	AnalysisID   string
	MPP          float64
	ImageWidth   int64
	ImageHeight  int64
}

// Store manages the catalog SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at dbPath and ensures the
// schema exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS outputs (
		sample TEXT NOT NULL,
		class INTEGER NOT NULL,
		features_path TEXT NOT NULL,
		algmeta_path TEXT NOT NULL,
		detections INTEGER NOT NULL,
		subject_id TEXT,
		case_id TEXT,
		analysis_id TEXT,
		mpp REAL,
		image_width INTEGER,
		image_height INTEGER,
		PRIMARY KEY (sample, class)
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// BuildSummary holds counts from a catalog build run.
type BuildSummary struct {
	Cataloged int
	Skipped   int
}

// Build scans inputDir for {subjectId}-{caseId} sample directories and
// catalogs every algmeta/features pair found inside. Samples that cannot be
// read produce a warning on w and are skipped; a build that catalogs
// nothing returns ErrNoRecords.
func (s *Store) Build(ctx context.Context, inputDir string, w io.Writer) (BuildSummary, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return BuildSummary{}, fmt.Errorf("reading input directory: %w", err)
	}

	var summary BuildSummary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		sample := entry.Name()
		records, err := scanSample(inputDir, sample)
		if err != nil {
			fmt.Fprintf(w, "[WARNING] skipping %s: %v\n", sample, err)
			summary.Skipped++
			continue
		}

		for _, rec := range records {
			if err := s.upsert(ctx, rec); err != nil {
				return summary, fmt.Errorf("cataloging %s type %d: %w", sample, rec.Class, err)
			}
			fmt.Fprintf(w, "cataloged %s type %d (%d detections)\n", sample, rec.Class, rec.Detections)
			summary.Cataloged++
		}
	}

	fmt.Fprintf(w, "\ncataloged: %d, skipped: %d\n", summary.Cataloged, summary.Skipped)
	if summary.Cataloged == 0 {
		return summary, ErrNoRecords
	}
	return summary, nil
}

// scanSample reads one sample directory and pairs each algmeta document
// with its features CSV.
func scanSample(inputDir, sample string) ([]Record, error) {
	dir := filepath.Join(inputDir, sample)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, "-algmeta.json") {
			continue
		}

		class, err := classFromName(name)
		if err != nil {
			return nil, err
		}

		algmetaPath := filepath.Join(dir, name)
		data, err := os.ReadFile(algmetaPath)
		if err != nil {
			return nil, err
		}
		var meta types.AlgMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}

		featuresPath := strings.TrimSuffix(algmetaPath, "-algmeta.json") + "-features.csv"
		detections, err := countDataRows(featuresPath)
		if err != nil {
			return nil, err
		}

		records = append(records, Record{
			Sample:       sample,
			Class:        class,
			FeaturesPath: featuresPath,
			AlgmetaPath:  algmetaPath,
			Detections:   detections,
			SubjectID:    meta.SubjectID,
			CaseID:       meta.CaseID,
			AnalysisID:   meta.AnalysisID,
			MPP:          meta.MPP,
			ImageWidth:   meta.ImageWidth,
			ImageHeight:  meta.ImageHeight,
		})
	}
	return records, nil
}

// classFromName extracts N from a {prefix}_type{N}-algmeta.json file name.
func classFromName(name string) (int, error) {
	base := strings.TrimSuffix(name, "-algmeta.json")
	idx := strings.LastIndex(base, "_type")
	if idx < 0 {
		return 0, fmt.Errorf("file %s has no _type{N} suffix", name)
	}
	class, err := strconv.Atoi(base[idx+len("_type"):])
	if err != nil {
		return 0, fmt.Errorf("file %s has a non-numeric class suffix", name)
	}
	return class, nil
}

// countDataRows counts the data rows of a features CSV (header excluded).
func countDataRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	count := -1 // uncounted header
	for {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("reading %s: %w", path, err)
		}
		count++
	}
	if count < 0 {
		return 0, fmt.Errorf("features file %s has no header", path)
	}
	return count, nil
}

func (s *Store) upsert(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outputs (sample, class, features_path, algmeta_path, detections,
			subject_id, case_id, analysis_id, mpp, image_width, image_height)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(sample, class) DO UPDATE SET
			features_path=excluded.features_path, algmeta_path=excluded.algmeta_path,
			detections=excluded.detections, subject_id=excluded.subject_id,
			case_id=excluded.case_id, analysis_id=excluded.analysis_id,
			mpp=excluded.mpp, image_width=excluded.image_width,
			image_height=excluded.image_height`,
		rec.Sample, rec.Class, rec.FeaturesPath, rec.AlgmetaPath, rec.Detections,
		rec.SubjectID, rec.CaseID, rec.AnalysisID, rec.MPP, rec.ImageWidth, rec.ImageHeight,
	)
	return err
}

// List returns all catalog records ordered by sample and class.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sample, class, features_path, algmeta_path, detections,
			subject_id, case_id, analysis_id, mpp, image_width, image_height
		 FROM outputs ORDER BY sample, class`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Sample, &rec.Class, &rec.FeaturesPath, &rec.AlgmetaPath,
			&rec.Detections, &rec.SubjectID, &rec.CaseID, &rec.AnalysisID,
			&rec.MPP, &rec.ImageWidth, &rec.ImageHeight); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
