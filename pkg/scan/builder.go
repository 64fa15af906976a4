package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sdejongh/ddupe/pkg/hasher"
	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/output"
	"github.com/sdejongh/ddupe/pkg/storage"
)

// PrefixHasher computes a cheap fingerprint of the start of a file
type PrefixHasher interface {
	PrefixHash(ctx context.Context, path string) (uint64, error)
}

// BuilderConfig controls candidate filtering and parallelism
type BuilderConfig struct {
	// Workers is the number of concurrent hashers, 1 means strictly sequential
	Workers int

	// SizePrefilter skips files whose size is unique in the scan
	SizePrefilter bool

	// PrefixPrefilter skips files whose leading block is unique among same-size files
	// It requires a hasher that implements PrefixHasher
	PrefixPrefilter bool
}

// BuildResult holds the buckets and the files that could not be hashed
type BuildResult struct {
	Buckets *Buckets

	// Hashed counts files whose full digest was computed
	Hashed int

	// Skipped counts files ruled out by a prefilter
	Skipped int

	// Errors lists files excluded because they could not be read, sorted by path
	Errors []models.ScanError
}

// Builder hashes files into buckets
type Builder struct {
	hasher   hasher.Hasher
	config   BuilderConfig
	progress func(output.ProgressUpdate)

	mu sync.Mutex
}

// NewBuilder creates a bucket builder
func NewBuilder(h hasher.Hasher, config BuilderConfig) *Builder {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Builder{hasher: h, config: config}
}

// SetProgressCallback sets a callback for per-file hashing events
// Calls are serialized
func (b *Builder) SetProgressCallback(fn func(output.ProgressUpdate)) {
	b.progress = fn
}

// fileResult is what one worker produces for one path
type fileResult struct {
	path   string
	digest models.Digest
	prefix uint64
	err    error
}

// Build hashes every candidate in files and groups them by digest
func (b *Builder) Build(ctx context.Context, files []storage.FileInfo) (*BuildResult, error) {
	result := &BuildResult{Buckets: NewBuckets()}

	candidates := b.sizeCandidates(files)
	result.Skipped = len(files) - len(candidates)

	if b.config.PrefixPrefilter {
		if ph, ok := b.hasher.(PrefixHasher); ok {
			narrowed, err := b.prefixCandidates(ctx, ph, candidates)
			if err != nil {
				return nil, err
			}
			result.Skipped += len(candidates) - len(narrowed)
			candidates = narrowed
		}
	}

	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.Path
	}

	partitions, err := b.runPool(ctx, paths, func(path string) fileResult {
		b.notify(output.ProgressUpdate{Type: "hash_start", FilePath: path})
		digest, err := b.hasher.Hash(ctx, path)
		if err != nil {
			if ctx.Err() == nil {
				b.notify(output.ProgressUpdate{Type: "hash_error", FilePath: path, Error: err})
			}
			return fileResult{path: path, err: err}
		}
		b.notify(output.ProgressUpdate{Type: "hash_complete", FilePath: path})
		return fileResult{path: path, digest: digest}
	})
	if err != nil {
		return nil, err
	}

	// Single writer: partitions are merged only after every worker finished
	for _, partition := range partitions {
		for _, r := range partition {
			if r.err != nil {
				result.Errors = append(result.Errors, models.ScanError{
					Path:      r.path,
					Error:     r.err.Error(),
					Timestamp: time.Now(),
				})
				continue
			}
			result.Buckets.Add(r.digest, r.path)
			result.Hashed++
		}
	}

	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	return result, nil
}

// sizeCandidates drops files whose size no other file shares
func (b *Builder) sizeCandidates(files []storage.FileInfo) []storage.FileInfo {
	if !b.config.SizePrefilter {
		return files
	}

	counts := make(map[int64]int, len(files))
	for _, f := range files {
		counts[f.Size]++
	}

	candidates := make([]storage.FileInfo, 0, len(files))
	for _, f := range files {
		if counts[f.Size] > 1 {
			candidates = append(candidates, f)
		} else {
			b.notify(output.ProgressUpdate{Type: "hash_skipped", FilePath: f.Path})
		}
	}
	return candidates
}

type prefixKey struct {
	size   int64
	prefix uint64
}

// prefixCandidates drops files whose leading block is unique within their size
// Files whose prefix cannot be read stay candidates so the full hash records the error
func (b *Builder) prefixCandidates(ctx context.Context, ph PrefixHasher, files []storage.FileInfo) ([]storage.FileInfo, error) {
	sizes := make(map[string]int64, len(files))
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
		sizes[f.Path] = f.Size
	}

	partitions, err := b.runPool(ctx, paths, func(path string) fileResult {
		prefix, err := ph.PrefixHash(ctx, path)
		return fileResult{path: path, prefix: prefix, err: err}
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[prefixKey]int)
	keys := make(map[string]prefixKey, len(files))
	unreadable := make(map[string]bool)
	for _, partition := range partitions {
		for _, r := range partition {
			if r.err != nil {
				unreadable[r.path] = true
				continue
			}
			key := prefixKey{prefix: r.prefix}
			if b.config.SizePrefilter {
				key.size = sizes[r.path]
			}
			keys[r.path] = key
			counts[key]++
		}
	}

	candidates := make([]storage.FileInfo, 0, len(files))
	for _, f := range files {
		if unreadable[f.Path] || counts[keys[f.Path]] > 1 {
			candidates = append(candidates, f)
		} else {
			b.notify(output.ProgressUpdate{Type: "hash_skipped", FilePath: f.Path})
		}
	}
	return candidates, nil
}

// runPool applies work to every path and returns one partition per worker
// With a single worker the paths are processed in order on the calling goroutine
func (b *Builder) runPool(ctx context.Context, paths []string, work func(string) fileResult) ([][]fileResult, error) {
	workers := b.config.Workers
	if workers > len(paths) {
		workers = len(paths)
	}

	if workers <= 1 {
		partition := make([]fileResult, 0, len(paths))
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			partition = append(partition, work(path))
		}
		return [][]fileResult{partition}, ctx.Err()
	}

	jobs := make(chan string)
	partitions := make([][]fileResult, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for path := range jobs {
				partitions[id] = append(partitions[id], work(path))
			}
		}(w)
	}

feed:
	for _, path := range paths {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return partitions, nil
}

func (b *Builder) notify(update output.ProgressUpdate) {
	if b.progress == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.progress(update)
}
