// Package tt implements the process-wide, concurrently shared
// transposition table: a cluster-bucketed cache of prior search results
// keyed by a position's 64-bit Zobrist hash, with an age+depth replacement
// policy. Grounded on the cluster-replacement variant "tierTransTable" in
// engine/transtable.go and the atomic-gated pkg/engine/transtable.go, with
// exact replacement-math semantics (the 263/0xF8 generation formula,
// Save's "overwrite iff key changed, deeper, or EXACT" rule, sharded
// parallel Clear) taken from Stockfish's tt.cpp in original_source/.
package tt

import (
	"runtime"
	"unsafe"

	"golang.org/x/sync/errgroup"

	"github.com/chizhovvadim/chesscore/pkg/chess"
)

// clusterSize is the nominal entry count per cluster (spec.md §4.10: "3
// TTEntry, fit in a cache line").
const clusterSize = 3

// Entry is one slot in a Cluster: key16 (the high 16 bits of the full
// Zobrist key), the best move, a score, a static-eval cache, a signed
// depth, and a packed generation/pv/bound byte. Ten bytes with no padding;
// nothing here is persisted to disk.
type Entry struct {
	Key16     uint16
	Move16    chess.Move
	Value16   int16
	Eval16    int16
	Depth8    int8
	GenBound8 uint8
}

func (e *Entry) Move() chess.Move   { return e.Move16 }
func (e *Entry) Value() chess.Value { return chess.Value(e.Value16) }
func (e *Entry) Eval() chess.Value  { return chess.Value(e.Eval16) }
func (e *Entry) Depth() chess.Depth { return chess.Depth(e.Depth8) }
func (e *Entry) Bound() chess.Bound { return chess.Bound(e.GenBound8 & 0x03) }
func (e *Entry) IsPV() bool         { return e.GenBound8&0x04 != 0 }
func (e *Entry) generation() uint8  { return e.GenBound8 & 0xF8 }

// Cluster groups clusterSize entries sharing one index; replacement picks
// within a cluster rather than across the whole table.
type Cluster struct {
	entries [clusterSize]Entry
}

// Table is the transposition table. Its zero value is not usable; build
// one with New.
type Table struct {
	clusters   []Cluster
	generation uint8
}

// New allocates a table sized to hold roughly mbSize megabytes, rounding
// the cluster count down. Grounded on TranspositionTable::resize in
// original_source/src/tt.cpp.
func New(mbSize int) *Table {
	var t = &Table{}
	t.Resize(mbSize)
	return t
}

// Resize reallocates the table. Callers must ensure no search is in
// progress — resize and Clear are serialization points, exactly as
// spec.md §5 describes (the out-of-scope search is responsible for the
// wait-for-search-finished half of that contract; this package only
// guarantees the table itself is self-consistent once Resize returns).
func (t *Table) Resize(mbSize int) {
	var clusterBytes = int(unsafe.Sizeof(Cluster{}))
	var clusterCount = mbSize * 1024 * 1024 / clusterBytes
	if clusterCount < 1 {
		clusterCount = 1
	}
	t.clusters = make([]Cluster, clusterCount)
	t.generation = 0
}

func (t *Table) clusterIndex(key chess.Key) uint64 {
	return (uint64(uint32(key>>32)) * uint64(len(t.clusters))) >> 32
}

// entryAge computes Stockfish's wrap-safe age: the constant 263 = 256 + 7
// keeps the low 3 bits (pv+bound) out of the subtraction while correctly
// handling wraparound of the 5-bit generation counter packed into the high
// bits of genBound8.
func entryAge(e *Entry, generation uint8) int {
	return int((263 + uint16(generation) - uint16(e.GenBound8)) & 0xF8)
}

// Probe looks up key, returning the slot to (re)use and whether it was
// already populated with this key. If an empty or matching slot exists in
// the cluster, its generation bits are refreshed (low 3 bits preserved) and
// returned; otherwise the entry with the lowest depth8-8*age score in the
// cluster is returned as the replacement candidate. Grounded on
// TranspositionTable::probe in tt.cpp; spec.md §4.10.
func (t *Table) Probe(key chess.Key) (entry *Entry, found bool) {
	var cluster = &t.clusters[t.clusterIndex(key)]
	var tag = uint16(key >> 48)

	for i := range cluster.entries {
		var e = &cluster.entries[i]
		if e.Key16 == 0 || e.Key16 == tag {
			e.GenBound8 = t.generation | (e.GenBound8 & 0x07)
			return e, e.Key16 != 0
		}
	}

	var replace = &cluster.entries[0]
	var replaceScore = int(replace.Depth8) - 8*entryAge(replace, t.generation)
	for i := 1; i < clusterSize; i++ {
		var e = &cluster.entries[i]
		var score = int(e.Depth8) - 8*entryAge(e, t.generation)
		if score < replaceScore {
			replace = e
			replaceScore = score
		}
	}
	return replace, false
}

// Save records a search result into entry (as returned by Probe). The move
// is preserved unless a real move is supplied or the key changed; the rest
// of the payload is overwritten only if the key changed, the new depth
// exceeds the stored depth minus four plies, or the bound is exact.
// Grounded on TTEntry::save in tt.cpp; spec.md §4.10.
func (t *Table) Save(entry *Entry, key chess.Key, value chess.Value, pv bool, bound chess.Bound, depth chess.Depth, move chess.Move, eval chess.Value) {
	var tag = uint16(key >> 48)

	if move != chess.MoveNone || tag != entry.Key16 {
		entry.Move16 = move
	}

	if tag != entry.Key16 || int(depth) > int(entry.Depth8)-4 || bound == chess.BoundExact {
		entry.Key16 = tag
		entry.Value16 = int16(value)
		entry.Eval16 = int16(eval)
		entry.Depth8 = int8(depth)
		var pvBit uint8
		if pv {
			pvBit = 4
		}
		entry.GenBound8 = t.generation | pvBit | uint8(bound)
	}
}

// NewSearch steps the generation counter by 8 (the high 5 bits), the way
// the search driver does at the start of every new root search.
func (t *Table) NewSearch() {
	t.generation += 8
}

// Clear zeros the table in parallel, one shard per worker, the final shard
// absorbing the remainder cluster count — spec.md §4.10's clear(), wired
// to golang.org/x/sync/errgroup for the sharded fan-out/join.
func (t *Table) Clear(threads int) error {
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	var clusterCount = len(t.clusters)
	if clusterCount == 0 {
		return nil
	}
	if threads > clusterCount {
		threads = clusterCount
	}

	var stride = clusterCount / threads
	var g errgroup.Group
	for i := 0; i < threads; i++ {
		var start = i * stride
		var end = start + stride
		if i == threads-1 {
			end = clusterCount
		}
		g.Go(func() error {
			var zero Cluster
			for c := start; c < end; c++ {
				t.clusters[c] = zero
			}
			return nil
		})
	}
	return g.Wait()
}

// Hashfull samples equispaced clusters (1,000, or 10,000 past 64M
// clusters) and returns, per mille, how many sampled non-empty entries
// (key16 != 0) belong to the current generation. Grounded on
// TranspositionTable::hashfull in tt.cpp.
func (t *Table) Hashfull() int {
	var clusterCount = len(t.clusters)
	if clusterCount == 0 {
		return 0
	}
	var samples = 1000
	if clusterCount > 64_000_000 {
		samples = 10000
	}
	if samples > clusterCount {
		samples = clusterCount
	}
	var stride = clusterCount / samples

	var filled = 0
	var scanned = 0
	for i := 0; i < samples; i++ {
		var cluster = &t.clusters[i*stride]
		for j := range cluster.entries {
			scanned++
			if cluster.entries[j].Key16 != 0 && cluster.entries[j].generation() == t.generation {
				filled++
			}
		}
	}
	if scanned == 0 {
		return 0
	}
	return filled * 1000 / scanned
}
