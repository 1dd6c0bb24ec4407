// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quip-tools/pkg/types"
)

const refManifest = `clinicaltrialsubjectid,imageid,studyid,tumor_type
S1,C1,STUDY-9,paad
S2,C7,STUDY-9,paad
`

// fixture builds an input tree and reference manifest. samples maps
// subdirectory name to the files it contains.
func fixture(t *testing.T, samples map[string][]string) types.ManifestConfig {
	t.Helper()
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "quip")
	require.NoError(t, os.MkdirAll(inputDir, 0o755))
	for sample, files := range samples {
		sampleDir := filepath.Join(inputDir, sample)
		require.NoError(t, os.MkdirAll(sampleDir, 0o755))
		for _, name := range files {
			require.NoError(t, os.WriteFile(filepath.Join(sampleDir, name), []byte("x"), 0o644))
		}
	}

	refPath := filepath.Join(dir, "ref.csv")
	require.NoError(t, os.WriteFile(refPath, []byte(refManifest), 0o644))

	return types.ManifestConfig{
		InputDir:        inputDir,
		OutputPath:      filepath.Join(dir, "out.csv"),
		RefManifestPath: refPath,
	}
}

func readOutput(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRunJoinsFilesToManifestRows(t *testing.T) {
	cfg := fixture(t, map[string][]string{
		"S1-C1": {"S1-C1_type1-features.csv", "S1-C1_type1-algmeta.json"},
	})

	var buf bytes.Buffer
	require.NoError(t, Run(cfg, &buf))

	records := readOutput(t, cfg.OutputPath)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"clinicaltrialsubjectid", "imageid", "studyid", "tumor_type", "path"}, records[0])

	paths := map[string]bool{}
	for _, row := range records[1:] {
		// Manifest columns are copied onto every row for the sample.
		assert.Equal(t, []string{"S1", "C1", "STUDY-9", "paad"}, row[:4])
		paths[row[4]] = true
	}
	assert.Len(t, paths, 2, "each file contributes a distinct path")
}

func TestRunSkipsUnknownSampleWithWarning(t *testing.T) {
	cfg := fixture(t, map[string][]string{
		"S1-C1":   {"a.csv"},
		"S99-C99": {"b.csv"},
	})

	var buf bytes.Buffer
	require.NoError(t, Run(cfg, &buf))

	assert.Contains(t, buf.String(), "[WARNING] manifest does not contain S99-C99")

	records := readOutput(t, cfg.OutputPath)
	require.Len(t, records, 2)
	assert.Equal(t, "S1", records[1][0])
}

func TestRunNoRows(t *testing.T) {
	cfg := fixture(t, map[string][]string{
		"S99-C99": {"a.csv"},
	})

	var buf bytes.Buffer
	err := Run(cfg, &buf)
	require.True(t, errors.Is(err, ErrNoRows), "err = %v", err)

	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr), "no output file should be written")
}

func TestRunEmptyInputDirectory(t *testing.T) {
	cfg := fixture(t, nil)

	var buf bytes.Buffer
	err := Run(cfg, &buf)
	assert.True(t, errors.Is(err, ErrNoRows))
}

func TestLoadRefTable(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "missing subject column",
			content: "imageid,studyid\nC1,S9\n",
			errPart: "clinicaltrialsubjectid",
		},
		{
			name:    "missing image column",
			content: "clinicaltrialsubjectid,studyid\nS1,S9\n",
			errPart: "imageid",
		},
		{
			name:    "empty file",
			content: "",
			errPart: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ref.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadRefTable(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadRefTableDuplicateKeyFirstWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.csv")
	content := "clinicaltrialsubjectid,imageid,studyid\nS1,C1,first\nS1,C1,second\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ref, err := LoadRefTable(path)
	require.NoError(t, err)

	row, ok := ref.Lookup("S1-C1")
	require.True(t, ok)
	assert.Equal(t, "first", row[2])
}

func TestRunIgnoresTopLevelFiles(t *testing.T) {
	cfg := fixture(t, map[string][]string{
		"S1-C1": {"a.csv"},
	})
	// A stray file next to the sample directories is not a sample.
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "README.txt"), []byte("x"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, Run(cfg, &buf))
	assert.False(t, strings.Contains(buf.String(), "README.txt"))
}
