// Package rendercache memoizes rasterized stitch tiles so unchanged stitches
// skip regeneration on every frame.
package rendercache

import (
	"encoding/binary"
	"encoding/hex"
	"image"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/blake2s"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/stitch"
)

// Cache is a read-through raster cache, bounded by entry count and TTL.
// Entries never invalidate in place: editing a stitch changes its content
// hash and therefore its key, and the stale tile ages out.
type Cache struct {
	lru    *expirable.LRU[string, *image.RGBA]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New builds a cache holding up to size tiles for at most ttl each. A size
// of zero leaves the entry count unbounded, TTL eviction still applies.
func New(size int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, *image.RGBA](size, nil, ttl),
	}
}

// Key derives the cache key for a stitch rendered under p: the stitch id
// plus a content hash over every render-affecting input. Editing the stitch
// or changing the generator parameters moves the tile to a fresh key.
func Key(st design.Stitch, p stitch.Params) string {
	h, _ := blake2s.New256(nil)
	h.Write([]byte(st.ID))
	h.Write([]byte{0})
	h.Write([]byte(st.Type))
	h.Write([]byte{0})
	h.Write([]byte(st.Color))
	h.Write([]byte{0})
	h.Write([]byte(st.ThreadType))

	var buf [8]byte
	writeFloat := func(v float64) {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeFloat(st.Thickness)
	writeFloat(st.Opacity)
	writeFloat(float64(st.Layer))
	for _, pt := range st.Points {
		writeFloat(pt.X)
		writeFloat(pt.Y)
	}
	writeFloat(p.LightDir.X)
	writeFloat(p.LightDir.Y)
	writeFloat(p.Twist)
	writeFloat(p.FillSpacing)

	sum := h.Sum(nil)
	return st.ID + ":" + hex.EncodeToString(sum[:8])
}

// GetOrRender returns the cached tile for key, or invokes render, stores the
// result and returns it. A nil render result is passed through uncached so a
// skipped stitch does not occupy a slot.
func (c *Cache) GetOrRender(key string, render func() *image.RGBA) *image.RGBA {
	if img, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return img
	}
	c.misses.Add(1)
	img := render()
	if img == nil {
		return nil
	}
	c.lru.Add(key, img)
	return img
}

// Get returns the cached tile for key, if present.
func (c *Cache) Get(key string) (*image.RGBA, bool) {
	img, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return img, ok
}

// Add stores a tile under key, overwriting any previous entry.
func (c *Cache) Add(key string, img *image.RGBA) {
	c.lru.Add(key, img)
}

// Remove drops the entry for key, if present.
func (c *Cache) Remove(key string) {
	c.lru.Remove(key)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len reports the number of cached tiles.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// LogStats emits hit/miss counters at debug level.
func (c *Cache) LogStats(log *slog.Logger) {
	log.Debug("render cache stats",
		"entries", c.lru.Len(),
		"hits", c.hits.Load(),
		"misses", c.misses.Load(),
	)
}
