package scan

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/ddupe/pkg/hasher"
	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/output"
	"github.com/sdejongh/ddupe/pkg/storage"
	"github.com/sdejongh/ddupe/pkg/terminal"
)

func newOperation(mode models.ResolutionMode) *models.ScanOperation {
	return &models.ScanOperation{
		ID:         "test-op",
		Root:       "/data",
		Mode:       mode,
		Algorithm:  models.AlgorithmSHA256,
		MaxWorkers: 1,
		BufferSize: hasher.DefaultChunkSize,
		CreatedAt:  time.Now(),
	}
}

type engineRun struct {
	report *models.ScanReport
	err    error
	out    *bytes.Buffer
	fs     afero.Fs
}

func runEngine(t *testing.T, fs afero.Fs, op *models.ScanOperation, answers ...string) engineRun {
	t.Helper()
	backend, err := storage.NewLocalFs(fs, "/data")
	require.NoError(t, err)
	h, err := hasher.New(backend, op.Algorithm)
	require.NoError(t, err)

	var out bytes.Buffer
	formatter := output.NewHumanFormatter(&out, &out, false)
	engine := NewEngine(backend, h, formatter, nil, terminal.NewScriptedPrompter(answers...), op)

	report, err := engine.Run(context.Background())
	return engineRun{report: report, err: err, out: &out, fs: fs}
}

func abcFs(t *testing.T) afero.Fs {
	fs, _, _ := memTree(t, map[string]string{"a.txt": "x", "b.txt": "x", "c.txt": "x", "unique.txt": "zzz"})
	return fs
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}

func TestEngineBatchAccept(t *testing.T) {
	run := runEngine(t, abcFs(t), newOperation(models.ModeBatch), "y")
	require.NoError(t, run.err)

	r := run.report
	assert.Equal(t, models.StatusSuccess, r.Status)
	assert.Equal(t, 4, r.FilesScanned)
	assert.Equal(t, 4, r.FilesHashed)
	require.Len(t, r.Analysis.Groups, 1)
	assert.Equal(t, "/data/a.txt", r.Analysis.Groups[0].Keep)
	assert.Equal(t, []string{"/data/b.txt", "/data/c.txt"}, r.Analysis.Groups[0].Dupes)
	assert.Equal(t, int64(2), r.Analysis.TotalSavingBytes)
	assert.Equal(t, 2, r.Resolution.Summary.DeletedCount)

	assert.True(t, exists(t, run.fs, "/data/a.txt"))
	assert.False(t, exists(t, run.fs, "/data/b.txt"))
	assert.False(t, exists(t, run.fs, "/data/c.txt"))
	assert.True(t, exists(t, run.fs, "/data/unique.txt"))

	assert.Contains(t, run.out.String(), "Summary: 2 duplicate file(s) can be removed, freeing approximately 2 B.")
	assert.Contains(t, run.out.String(), "Done: Deleted 2 file(s), freeing approximately 2 B.")
	assert.Zero(t, r.Status.ExitCode())
}

func TestEngineBatchDecline(t *testing.T) {
	run := runEngine(t, abcFs(t), newOperation(models.ModeBatch), "no")
	require.NoError(t, run.err)

	assert.Equal(t, models.StatusDeclined, run.report.Status)
	assert.Zero(t, run.report.Status.ExitCode())
	assert.True(t, exists(t, run.fs, "/data/b.txt"))
	assert.True(t, exists(t, run.fs, "/data/c.txt"))
	assert.Contains(t, run.out.String(), "Aborted. No files were deleted.")
}

func TestEngineNonDeletingModes(t *testing.T) {
	for _, mode := range []models.ResolutionMode{models.ModeDryRun, models.ModeReport} {
		t.Run(string(mode), func(t *testing.T) {
			run := runEngine(t, abcFs(t), newOperation(mode), "y")
			require.NoError(t, run.err)

			assert.Equal(t, models.StatusSuccess, run.report.Status)
			assert.Equal(t, 2, run.report.Analysis.TotalDupes())
			for _, name := range []string{"a.txt", "b.txt", "c.txt", "unique.txt"} {
				assert.True(t, exists(t, run.fs, "/data/"+name))
			}
		})
	}
}

func TestEngineInteractive(t *testing.T) {
	op := newOperation(models.ModeInteractive)
	op.Interactive = true
	run := runEngine(t, abcFs(t), op, "3")
	require.NoError(t, run.err)

	assert.True(t, run.report.Interactive)
	assert.False(t, exists(t, run.fs, "/data/a.txt"))
	assert.False(t, exists(t, run.fs, "/data/b.txt"))
	assert.True(t, exists(t, run.fs, "/data/c.txt"))
	assert.Equal(t, int64(2), run.report.Resolution.Summary.DeletedBytes)
}

func TestEngineEmptyDirectory(t *testing.T) {
	fs, _, _ := memTree(t, nil)
	run := runEngine(t, fs, newOperation(models.ModeBatch))
	require.NoError(t, run.err)

	assert.Equal(t, models.StatusSuccess, run.report.Status)
	assert.Zero(t, run.report.FilesScanned)
	assert.Empty(t, run.report.Analysis.Groups)
	assert.Contains(t, run.out.String(), "No files found.")
}

func TestEngineDistinctContents(t *testing.T) {
	fs, _, _ := memTree(t, map[string]string{"1": "one", "2": "two", "3": "three"})
	run := runEngine(t, fs, newOperation(models.ModeBatch), "y")
	require.NoError(t, run.err)

	assert.Empty(t, run.report.Analysis.Groups)
	assert.Empty(t, run.report.Analysis.RemovableFiles)
	assert.Contains(t, run.out.String(), "No duplicates found")
	assert.NotContains(t, run.out.String(), "Done:")
}

func TestEnginePartialOnDeletionFailure(t *testing.T) {
	run := runEngine(t, afero.NewReadOnlyFs(abcFs(t)), newOperation(models.ModeBatch), "y")
	require.NoError(t, run.err)

	assert.Equal(t, models.StatusPartial, run.report.Status)
	assert.Zero(t, run.report.Status.ExitCode())
	assert.Equal(t, 2, run.report.Resolution.Summary.FailedCount)
	assert.Contains(t, run.out.String(), "Done: Deleted 0 file(s), freeing approximately 0 B.")
}

func TestEngineParallelWithPrefilters(t *testing.T) {
	op := newOperation(models.ModeDryRun)
	op.MaxWorkers = 4
	op.SizePrefilter = true
	op.PrefixPrefilter = true

	run := runEngine(t, abcFs(t), op)
	require.NoError(t, run.err)

	assert.Equal(t, 3, run.report.FilesHashed)
	require.Len(t, run.report.Analysis.Groups, 1)
	assert.Equal(t, "/data/a.txt", run.report.Analysis.Groups[0].Keep)
}

func TestEngineCancelled(t *testing.T) {
	backend, err := storage.NewLocalFs(abcFs(t), "/data")
	require.NoError(t, err)
	h, err := hasher.New(backend, models.AlgorithmSHA256)
	require.NoError(t, err)

	var out bytes.Buffer
	engine := NewEngine(backend, h, output.NewHumanFormatter(&out, &out, false), nil, nil, newOperation(models.ModeBatch))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := engine.Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.StatusFailed, report.Status)
	assert.Equal(t, 1, report.Status.ExitCode())
}
