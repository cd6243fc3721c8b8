package pricing

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"

	"order-pricing-api/internal/models"
)

// DefaultMemoSize is the number of distinct inputs a Memo keeps by default
const DefaultMemoSize = 256

type memoKey [sha256.Size]byte

// MemoStats reports cache effectiveness
type MemoStats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// Memo caches Compute results keyed by the structural value of its inputs.
//
// Two calls whose lines and options are equal field by field share one entry,
// regardless of slice identity. Only the numeric fields and the resolved toggle
// take part in the key; metadata such as descriptions does not affect totals.
// The oldest entry is evicted once capacity is reached. Memo is safe for
// concurrent use.
type Memo struct {
	mu       sync.Mutex
	capacity int
	entries  map[memoKey]models.Totals
	order    []memoKey
	hits     uint64
	misses   uint64
}

// NewMemo creates a memo holding at most capacity entries. A capacity of zero
// or less disables caching and every call goes straight to Compute.
func NewMemo(capacity int) *Memo {
	if capacity < 0 {
		capacity = 0
	}
	return &Memo{
		capacity: capacity,
		entries:  make(map[memoKey]models.Totals, capacity),
	}
}

// Compute returns the same totals as the package-level Compute
func (m *Memo) Compute(lines []models.LineItem, opts *Options) (models.Totals, bool) {
	if m == nil || m.capacity == 0 {
		return Compute(lines, opts), false
	}

	key := structuralKey(lines, opts)

	m.mu.Lock()
	if totals, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()
		return totals, true
	}
	m.misses++
	m.mu.Unlock()

	totals := Compute(lines, opts)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		if len(m.order) >= m.capacity {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.entries, oldest)
		}
		m.order = append(m.order, key)
	}
	m.entries[key] = totals

	return totals, false
}

// Stats returns hit and miss counters and the current entry count. The
// counters only ever grow, eviction included.
func (m *Memo) Stats() MemoStats {
	if m == nil {
		return MemoStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return MemoStats{Hits: m.hits, Misses: m.misses, Entries: len(m.entries)}
}

// structuralKey hashes the bit patterns of every numeric input. Absent
// optional fields are hashed distinctly from explicit values so the key stays
// exact even where the two would price identically.
func structuralKey(lines []models.LineItem, opts *Options) memoKey {
	h := sha256.New()
	var buf [8]byte

	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeOptional := func(v *float64) {
		if v == nil {
			h.Write([]byte{0})
			return
		}
		h.Write([]byte{1})
		writeUint(math.Float64bits(*v))
	}

	if opts.LineLevelCalculationsEnabled() {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	writeUint(uint64(len(lines)))

	for i := range lines {
		line := &lines[i]
		writeUint(math.Float64bits(line.Quantity))
		writeUint(math.Float64bits(line.UnitPrice))
		writeOptional(line.Factor)
		writeOptional(line.DiscountPercent)
		writeOptional(line.TaxPercent)
		writeOptional(line.ExciseAmount)
		writeOptional(line.OtherFeeAmount)
	}

	var key memoKey
	copy(key[:], h.Sum(nil))
	return key
}
