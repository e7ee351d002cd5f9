package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache maps the xxh3 hash of a source text to its *cacheEntry.
var programCache sync.Map

type cacheEntry struct {
	once   sync.Once
	source string
	prog   Program
	err    error
}

// ParseString parses source and returns its Program.
//
// Results, errors included, are cached by source text unless the
// [WithCache] option disables it. The cache is safe for concurrent use.
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (Program, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(source)),
	)

	if !o.cache {
		return parseSource(source)
	}

	hash := xxh3.Hash([]byte(source))

	value, hit := programCache.LoadOrStore(hash, &cacheEntry{source: source})
	entry := value.(*cacheEntry)

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	// Colliding hashes fall back to an uncached parse.
	if entry.source != source {
		return parseSource(source)
	}

	entry.once.Do(func() {
		entry.prog, entry.err = parseSource(source)
	})

	return entry.prog, entry.err
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (Program, error) {
	// Prefetch asynchronously while earlier chunks are consumed.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	makeOptions(opts...).logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...)
}

// ClearCache removes all cached programs.
func ClearCache() {
	programCache.Clear()
}
