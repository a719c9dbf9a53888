package pdf

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	"github.com/cespare/xxhash/v2"
)

type planRenderer interface {
	Render(ctx context.Context, plan domain.ReportPlan, w io.Writer) error
}

// CachedRenderer replays recently rendered documents for plans with the same
// logger, month, layout and readings. A replayed document keeps the
// generation time of its first rendering.
type CachedRenderer struct {
	inner planRenderer
	cache *lruCache[uint64, []byte]
}

// NewCachedRenderer wraps inner with an LRU cache of maxEntries documents.
func NewCachedRenderer(inner planRenderer, maxEntries int) *CachedRenderer {
	return &CachedRenderer{
		inner: inner,
		cache: newLRUCache[uint64, []byte](maxEntries),
	}
}

func (c *CachedRenderer) Render(ctx context.Context, plan domain.ReportPlan, w io.Writer) error {
	key := planKey(plan)
	if doc, ok := c.cache.get(key); ok {
		_, err := w.Write(doc)
		return err
	}

	var buf bytes.Buffer
	if err := c.inner.Render(ctx, plan, &buf); err != nil {
		return err
	}
	doc := buf.Bytes()
	c.cache.put(key, doc)

	_, err := w.Write(doc)
	return err
}

// planKey hashes everything that changes the rendered document except the
// generation time.
func planKey(plan domain.ReportPlan) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(plan.LoggerID)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(plan.Month)

	var b [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(b[:], v)
		_, _ = h.Write(b[:])
	}

	put(uint64(len(plan.Pages)))
	if len(plan.Pages) > 0 {
		put(uint64(len(plan.Pages[0].Left)))
	}
	for _, r := range plan.Readings {
		put(uint64(r.Timestamp.UnixNano()))
		put(math.Float64bits(r.Temperature))
		put(math.Float64bits(r.Humidity))
	}
	return h.Sum64()
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[K comparable, V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[K]*entry[K, V]
	head       *entry[K, V] // most recently used
	tail       *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

func newLRUCache[K comparable, V any](maxEntries int) *lruCache[K, V] {
	return &lruCache[K, V]{
		maxEntries: maxEntries,
		entries:    make(map[K]*entry[K, V]),
	}
}

func (c *lruCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[K, V]) put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	for len(c.entries) > c.maxEntries && c.tail != nil {
		delete(c.entries, c.tail.key)
		c.remove(c.tail)
	}
}

func (c *lruCache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[K, V]) addToFront(e *entry[K, V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}
