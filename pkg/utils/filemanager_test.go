package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(
		filepath.Join(root, "input"),
		filepath.Join(root, "output"),
		filepath.Join(root, "input_archive"),
		filepath.Join(root, "output_archive"),
	)
	require.NoError(t, fm.EnsureDirectories())
	return fm
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("payload,amount\n"), 0o644))
}

func TestDiscoverInputFiles(t *testing.T) {
	fm := newTestManager(t)
	touch(t, filepath.Join(fm.InputDir, "b.csv"))
	touch(t, filepath.Join(fm.InputDir, "a.xlsx"))
	touch(t, filepath.Join(fm.InputDir, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(fm.InputDir, "dir.csv"), 0o755))

	files, err := fm.DiscoverInputFiles("*.csv", "*.xlsx", "b.*")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(fm.InputDir, "a.xlsx"),
		filepath.Join(fm.InputDir, "b.csv"),
	}, files)

	files, err = fm.DiscoverInputFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(fm.InputDir, "b.csv")}, files)

	_, err = fm.DiscoverInputFiles("[")
	assert.Error(t, err)
}

func TestArchive(t *testing.T) {
	fm := newTestManager(t)
	input := filepath.Join(fm.InputDir, "orders.csv")
	output := filepath.Join(fm.OutputDir, "orders_result.xlsx")
	touch(t, input)
	touch(t, output)

	archived, err := fm.ArchiveInputFile(input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.InputArchiveDir, "orders.csv"), archived)
	assert.False(t, FileExists(input))
	assert.True(t, FileExists(archived))

	copied, err := fm.ArchiveOutputFile(output)
	require.NoError(t, err)
	assert.True(t, FileExists(output))
	assert.True(t, FileExists(copied))
}

func TestArchive_TimestampSubdirs(t *testing.T) {
	fm := newTestManager(t)
	fm.UseTimestampSubdirs = true
	fm.now = func() time.Time { return time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC) }

	input := filepath.Join(fm.InputDir, "orders.csv")
	touch(t, input)

	archived, err := fm.ArchiveInputFile(input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.InputArchiveDir, "2024", "01", "05", "orders.csv"), archived)
}

func TestArchive_Disabled(t *testing.T) {
	fm := newTestManager(t)
	fm.ArchiveOnSuccess = false

	input := filepath.Join(fm.InputDir, "orders.csv")
	touch(t, input)

	archived, err := fm.ArchiveInputFile(input)
	require.NoError(t, err)
	assert.Equal(t, input, archived)
	assert.True(t, FileExists(input))
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{name}_{timestamp}", map[string]string{"name": "orders"}, ".xlsx")
	assert.Regexp(t, regexp.MustCompile(`^orders_\d{8}_\d{6}\.xlsx$`), name)

	name = GenerateOutputFileName("{name}-{uuid}.xml", map[string]string{"name": "orders"}, ".xml")
	assert.Regexp(t, regexp.MustCompile(`^orders-[0-9a-f-]{36}\.xml$`), name)

	assert.Equal(t, "fixed", GenerateOutputFileName("fixed", nil, ""))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "orders", BaseName("/in/orders.csv"))
	assert.Equal(t, "orders.v2", BaseName("orders.v2.xlsx"))
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(nil, dir)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = WriteErrorLog([]ErrorLogEntry{{
		Timestamp:    time.Now(),
		FileName:     "orders.csv",
		ErrorType:    "conversion",
		ErrorMessage: "malformed payload",
		RowNumber:    3,
		Payload:      "0002",
	}}, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Errors: 1")
	assert.Contains(t, string(data), "Row Number:     3")
	assert.Contains(t, string(data), "Payload:        0002")
	assert.NotContains(t, string(data), "Label:")
}

func TestWriteSummaryLog(t *testing.T) {
	start := time.Now()
	path, err := WriteSummaryLog(ProcessingSummary{
		StartTime:       start,
		EndTime:         start.Add(2 * time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalRows:       5,
		ConvertedRows:   4,
		FailedRows:      1,
		ProcessedFiles: []ProcessedFileInfo{
			{InputFile: "orders.csv", OutputFile: "orders.xlsx", Rows: 5, Converted: 4, Failed: 1},
		},
		FailedFilesList: []FailedFileInfo{
			{InputFile: "broken.csv", ErrorMessage: "missing \"amount\" column"},
		},
	}, t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Duration:       2s")
	assert.Contains(t, text, "Converted Rows: 4")
	assert.Contains(t, text, "Rows:         5 (converted 4, failed 1)")
	assert.Contains(t, text, "Error: missing \"amount\" column")
}
