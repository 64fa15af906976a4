package hasher

import (
	"context"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/sdejongh/ddupe/pkg/ratelimit"
)

// PrefixSize is the number of leading bytes covered by PrefixHash
const PrefixSize = 4 * 1024

// PrefixHash returns an xxhash64 of the first PrefixSize bytes of a file
// It only narrows candidates and is never used as a duplicate key
func (h *StreamHasher) PrefixHash(ctx context.Context, path string) (uint64, error) {
	rc, err := h.backend.Open(ctx, path)
	if err != nil {
		return 0, &Error{Op: "open", Path: path, Err: err}
	}
	defer rc.Close()

	reader := io.LimitReader(ratelimit.Wrap(ctx, rc, h.limiter), PrefixSize)

	d := xxhash.New()
	if _, err := io.Copy(d, reader); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, &Error{Op: "read", Path: path, Err: err}
	}
	return d.Sum64(), nil
}
