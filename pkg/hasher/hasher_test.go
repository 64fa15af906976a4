package hasher

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/storage"
)

const (
	helloSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

func newBackend(t *testing.T, files map[string]string) storage.Backend {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/root", 0755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, "/root/"+name, []byte(content), 0644))
	}
	backend, err := storage.NewLocalFs(fs, "/root")
	require.NoError(t, err)
	return backend
}

// failingBackend returns readers that fail after the first chunk
type failingBackend struct {
	storage.Backend
}

type failingReader struct{ served bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.served {
		return 0, errors.New("device error")
	}
	r.served = true
	return copy(p, "partial"), nil
}

func (r *failingReader) Close() error { return nil }

func (b failingBackend) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return &failingReader{}, nil
}

func TestNew(t *testing.T) {
	backend := newBackend(t, nil)

	t.Run("DefaultsToSHA256", func(t *testing.T) {
		h, err := New(backend, "")
		require.NoError(t, err)
		assert.Equal(t, models.AlgorithmSHA256, h.Algorithm())
		assert.Equal(t, DefaultChunkSize, h.ChunkSize())
	})

	t.Run("ChunkSizeClamped", func(t *testing.T) {
		h, err := New(backend, models.AlgorithmSHA256, WithChunkSize(10))
		require.NoError(t, err)
		assert.Equal(t, MinChunkSize, h.ChunkSize())
	})

	t.Run("UnknownAlgorithm", func(t *testing.T) {
		_, err := New(backend, "md5")
		assert.Error(t, err)
	})
}

func TestHash(t *testing.T) {
	backend := newBackend(t, map[string]string{
		"hello.txt": "hello world",
		"copy.txt":  "hello world",
		"empty.txt": "",
		"other.txt": "hello worle",
		"large.bin": strings.Repeat("0123456789abcdef", 10000),
	})
	ctx := context.Background()

	t.Run("KnownSHA256", func(t *testing.T) {
		h, err := New(backend, models.AlgorithmSHA256)
		require.NoError(t, err)

		d, err := h.Hash(ctx, "/root/hello.txt")
		require.NoError(t, err)
		assert.Equal(t, models.Digest(helloSHA256), d)

		d, err = h.Hash(ctx, "/root/empty.txt")
		require.NoError(t, err)
		assert.Equal(t, models.Digest(emptySHA256), d)
	})

	for _, algo := range []models.DigestAlgorithm{models.AlgorithmSHA256, models.AlgorithmBLAKE3} {
		t.Run(string(algo), func(t *testing.T) {
			h, err := New(backend, algo, WithChunkSize(MinChunkSize))
			require.NoError(t, err)

			a, err := h.Hash(ctx, "/root/hello.txt")
			require.NoError(t, err)
			b, err := h.Hash(ctx, "/root/copy.txt")
			require.NoError(t, err)
			c, err := h.Hash(ctx, "/root/other.txt")
			require.NoError(t, err)

			assert.True(t, a.Valid(), "digest %q is not 64 lowercase hex chars", a)
			assert.Equal(t, a, b)
			assert.NotEqual(t, a, c)
		})
	}

	t.Run("AlgorithmsDiffer", func(t *testing.T) {
		s, err := New(backend, models.AlgorithmSHA256)
		require.NoError(t, err)
		b, err := New(backend, models.AlgorithmBLAKE3)
		require.NoError(t, err)

		ds, err := s.Hash(ctx, "/root/hello.txt")
		require.NoError(t, err)
		db, err := b.Hash(ctx, "/root/hello.txt")
		require.NoError(t, err)
		assert.NotEqual(t, ds, db)
	})

	t.Run("ChunkSizeDoesNotChangeDigest", func(t *testing.T) {
		small, err := New(backend, models.AlgorithmSHA256, WithChunkSize(MinChunkSize))
		require.NoError(t, err)
		big, err := New(backend, models.AlgorithmSHA256, WithChunkSize(64*1024))
		require.NoError(t, err)

		d1, err := small.Hash(ctx, "/root/large.bin")
		require.NoError(t, err)
		d2, err := big.Hash(ctx, "/root/large.bin")
		require.NoError(t, err)
		assert.Equal(t, d1, d2)
	})

	t.Run("Progress", func(t *testing.T) {
		var last, total int64
		h, err := New(backend, models.AlgorithmSHA256, WithProgress(func(path string, current, size int64) {
			last, total = current, size
		}))
		require.NoError(t, err)

		_, err = h.Hash(ctx, "/root/large.bin")
		require.NoError(t, err)
		assert.Equal(t, int64(160000), last)
		assert.Equal(t, int64(160000), total)
	})
}

func TestHashErrors(t *testing.T) {
	backend := newBackend(t, map[string]string{"a.txt": "a"})
	ctx := context.Background()

	t.Run("OpenFailure", func(t *testing.T) {
		h, err := New(backend, models.AlgorithmSHA256)
		require.NoError(t, err)

		_, err = h.Hash(ctx, "/root/missing.txt")
		require.Error(t, err)

		var herr *Error
		require.ErrorAs(t, err, &herr)
		assert.Equal(t, "open", herr.Op)
		assert.Equal(t, "/root/missing.txt", herr.Path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("ReadFailure", func(t *testing.T) {
		h, err := New(failingBackend{backend}, models.AlgorithmSHA256)
		require.NoError(t, err)

		_, err = h.Hash(ctx, "/root/a.txt")
		var herr *Error
		require.ErrorAs(t, err, &herr)
		assert.Equal(t, "read", herr.Op)
		assert.Contains(t, err.Error(), "device error")
	})

	t.Run("Cancelled", func(t *testing.T) {
		h, err := New(backend, models.AlgorithmSHA256)
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = h.Hash(cctx, "/root/a.txt")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPrefixHash(t *testing.T) {
	head := strings.Repeat("x", PrefixSize)
	backend := newBackend(t, map[string]string{
		"a.bin": head + "tail-one",
		"b.bin": head + "tail-two",
		"c.bin": "y" + head[1:] + "tail-one",
	})
	ctx := context.Background()

	h, err := New(backend, models.AlgorithmSHA256)
	require.NoError(t, err)

	a, err := h.PrefixHash(ctx, "/root/a.bin")
	require.NoError(t, err)
	b, err := h.PrefixHash(ctx, "/root/b.bin")
	require.NoError(t, err)
	c, err := h.PrefixHash(ctx, "/root/c.bin")
	require.NoError(t, err)

	assert.Equal(t, a, b, "prefix hash must ignore bytes past the prefix")
	assert.NotEqual(t, a, c)

	_, err = h.PrefixHash(ctx, "/root/missing.bin")
	var herr *Error
	assert.ErrorAs(t, err, &herr)
}
