package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
)

// CompressedCache stores values zstd-compressed in an inner cache. Rendered
// SVG and PDF artifacts shrink several times over.
//
// Entries that fail to decompress, such as those written before compression
// was enabled, are reported as misses.
type CompressedCache struct {
	inner Cache
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// NewCompressedCache wraps inner. Closing the wrapper closes inner.
func NewCompressedCache(inner Cache) (*CompressedCache, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &CompressedCache{inner: inner, enc: enc, dec: dec}, nil
}

// Get retrieves and decompresses a value.
func (c *CompressedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err != nil || !hit {
		return nil, false, err
	}
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, false, nil
	}
	return out, true, nil
}

// Set compresses and stores a value.
func (c *CompressedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, c.enc.EncodeAll(data, nil), ttl)
}

// Delete removes a value.
func (c *CompressedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Clear clears the inner cache when it supports clearing.
func (c *CompressedCache) Clear(ctx context.Context) (int, error) {
	if cl, ok := c.inner.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return 0, nil
}

// Unwrap returns the inner cache.
func (c *CompressedCache) Unwrap() Cache { return c.inner }

// Close releases the codecs and closes the inner cache.
func (c *CompressedCache) Close() error {
	c.dec.Close()
	if err := c.enc.Close(); err != nil {
		return err
	}
	return c.inner.Close()
}
