// Package hasher computes content digests of files through a storage backend
package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/ratelimit"
	"github.com/sdejongh/ddupe/pkg/storage"
)

const (
	// DefaultChunkSize is the read size used when none is configured
	DefaultChunkSize = 8 * 1024
	// MinChunkSize is the smallest accepted read size
	MinChunkSize = 1024
)

// Progress throttling
const (
	progressReportInterval = 50 * time.Millisecond
	progressReportBytes    = 64 * 1024
)

// ProgressFunc receives bytes read so far for one file
type ProgressFunc func(path string, current, total int64)

// Hasher maps a file path to the digest of its contents
type Hasher interface {
	Hash(ctx context.Context, path string) (models.Digest, error)
	Algorithm() models.DigestAlgorithm
}

// Error is returned when a file cannot be opened or read
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StreamHasher hashes files in fixed-size chunks using pooled buffers
type StreamHasher struct {
	backend    storage.Backend
	algorithm  models.DigestAlgorithm
	chunkSize  int
	bufferPool *sync.Pool
	limiter    *ratelimit.Limiter
	progress   ProgressFunc
}

// Option configures a StreamHasher
type Option func(*StreamHasher)

// WithChunkSize sets the read size, clamped to MinChunkSize
func WithChunkSize(size int) Option {
	return func(h *StreamHasher) {
		if size < MinChunkSize {
			size = MinChunkSize
		}
		h.chunkSize = size
	}
}

// WithLimiter throttles every read through limiter
func WithLimiter(limiter *ratelimit.Limiter) Option {
	return func(h *StreamHasher) {
		h.limiter = limiter
	}
}

// WithProgress sets a per-file progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(h *StreamHasher) {
		h.progress = fn
	}
}

// New creates a streaming hasher for the given algorithm
func New(backend storage.Backend, algorithm models.DigestAlgorithm, opts ...Option) (*StreamHasher, error) {
	algorithm, err := models.ParseDigestAlgorithm(string(algorithm))
	if err != nil {
		return nil, err
	}

	h := &StreamHasher{
		backend:   backend,
		algorithm: algorithm,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(h)
	}

	chunkSize := h.chunkSize
	h.bufferPool = &sync.Pool{
		New: func() interface{} {
			buf := make([]byte, chunkSize)
			return &buf
		},
	}
	return h, nil
}

// Algorithm returns the digest algorithm in use
func (h *StreamHasher) Algorithm() models.DigestAlgorithm {
	return h.algorithm
}

// ChunkSize returns the read size in bytes
func (h *StreamHasher) ChunkSize() int {
	return h.chunkSize
}

func (h *StreamHasher) newHash() hash.Hash {
	if h.algorithm == models.AlgorithmBLAKE3 {
		return blake3.New()
	}
	return sha256.New()
}

// Hash streams the file at path and returns its digest
func (h *StreamHasher) Hash(ctx context.Context, path string) (models.Digest, error) {
	reader, err := h.backend.Open(ctx, path)
	if err != nil {
		return "", &Error{Op: "open", Path: path, Err: err}
	}
	defer reader.Close()

	// Size is only needed for progress reporting
	var fileSize int64
	if h.progress != nil {
		if info, err := h.backend.Stat(ctx, path); err == nil {
			fileSize = info.Size
		}
	}

	reader = ratelimit.Wrap(ctx, reader, h.limiter)
	sum := h.newHash()

	bufPtr := h.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	var totalRead, lastReported int64
	lastReportTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			sum.Write(buffer[:n])
			totalRead += int64(n)

			if h.progress != nil &&
				(totalRead-lastReported >= progressReportBytes || time.Since(lastReportTime) >= progressReportInterval) {
				h.progress(path, totalRead, fileSize)
				lastReported = totalRead
				lastReportTime = time.Now()
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", &Error{Op: "read", Path: path, Err: err}
		}
	}

	if h.progress != nil && totalRead > lastReported {
		h.progress(path, totalRead, fileSize)
	}

	return models.Digest(hex.EncodeToString(sum.Sum(nil))), nil
}
