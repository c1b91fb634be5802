package engine

import (
	"math/bits"

	"github.com/kestrelchess/engine/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// ageCycle bounds the wrapping age counter packed into genBound8's upper
// 5 bits; replacement scores subtract staleness modulo this cycle.
const ageCycle = 1 << 5

// entriesPerCluster matches Stockfish's TT layout: three 10-byte entries
// plus 2 bytes of padding round out to half a cache line, and clusters are
// never torn across a line boundary on typical allocators.
const entriesPerCluster = 3

// ttEntry is one slot of a cluster: 16-bit verification key, compact move,
// score, static-eval cache, depth, and a packed {bound:2, pv:1, age:5} byte.
// depth8 holds depth+1 so that a quiescence entry (depth 0) is distinguishable
// from an empty slot, whose zero value means unoccupied.
type ttEntry struct {
	key16    uint16
	move     board.Move
	score    int16
	eval     int16
	depth8   uint8
	genBound uint8
}

func (e *ttEntry) bound() TTFlag { return TTFlag(e.genBound & 0x3) }
func (e *ttEntry) isPV() bool    { return e.genBound&0x4 != 0 }
func (e *ttEntry) gen() uint8    { return e.genBound >> 3 }

func packGenBound(age uint8, pv bool, flag TTFlag) uint8 {
	g := (age % ageCycle) << 3
	if pv {
		g |= 0x4
	}
	return g | uint8(flag)
}

// relativeAge scores how stale an entry is with respect to the table's
// current generation, wrapping safely when age has cycled past it.
func (e *ttEntry) relativeAge(tableAge uint8) uint8 {
	return uint8((ageCycle + tableAge - e.gen()) % ageCycle)
}

// ttCluster is the unit of replacement: three entries that share a hash
// bucket and are evicted/refreshed as a group.
type ttCluster struct {
	entries [entriesPerCluster]ttEntry
	_       [2]byte // pad to 32 bytes, half a cache line
}

// TTEntry is the decoded, caller-facing view of a probed slot.
type TTEntry struct {
	BestMove board.Move
	Score    int16
	Eval     int16
	Depth    int
	Flag     TTFlag
	IsPV     bool
}

// TranspositionTable is a lock-free, cluster-based hash table for storing
// search results, shared read/write across all search threads. Torn reads
// (from concurrent writers touching the same cluster) are tolerated: every
// read re-validates the stored 16-bit key before trusting the entry.
type TranspositionTable struct {
	clusters []ttCluster
	count    uint64 // cluster count, not a power of 2
	age      uint8

	// Statistics (best-effort under concurrent access, not synchronized;
	// used only for HashFull/HitRate reporting, never for correctness).
	hits   uint64
	probes uint64
}

const ttClusterSize = 32 // bytes, must track ttCluster's packed size

// NewTranspositionTable creates a transposition table sized to approximately
// sizeMB megabytes: (megabytes * 2^20) / sizeof(cluster) clusters.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	count := (uint64(sizeMB) * 1024 * 1024) / ttClusterSize
	if count == 0 {
		count = 1
	}
	return &TranspositionTable{
		clusters: make([]ttCluster, count),
		count:    count,
	}
}

// Resize reallocates the table to approximately sizeMB megabytes in place,
// discarding all existing entries. Safe to call only between searches (it
// does not coordinate with concurrent Probe/Store calls), which is how the
// UCI "Hash" option is applied: setoption only arrives while idle.
func (tt *TranspositionTable) Resize(sizeMB int) {
	if sizeMB < 1 {
		sizeMB = 1
	}
	count := (uint64(sizeMB) * 1024 * 1024) / ttClusterSize
	if count == 0 {
		count = 1
	}
	tt.clusters = make([]ttCluster, count)
	tt.count = count
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// clusterIndex maps a 64-bit hash into [0, count) using the high 64 bits of
// the full 128-bit product of hash and count. This spreads keys uniformly
// without requiring a power-of-2 table size.
func clusterIndex(hash, count uint64) uint64 {
	hi, _ := bits.Mul64(hash, count)
	return hi
}

// Probe looks up a position's cluster and returns the matching entry (by
// 16-bit key) if present, or a zero TTEntry on a miss.
// The returned bool is true only on a genuine key match.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++

	cluster := &tt.clusters[clusterIndex(hash, tt.count)]
	key16 := uint16(hash)

	for i := range cluster.entries {
		e := &cluster.entries[i]
		if e.depth8 == 0 || e.key16 == key16 {
			if e.key16 == key16 && e.depth8 != 0 {
				e.genBound = packGenBound(tt.age, e.isPV(), e.bound())
				tt.hits++
				return TTEntry{
					BestMove: e.move,
					Score:    e.score,
					Eval:     e.eval,
					Depth:    int(e.depth8) - 1,
					Flag:     e.bound(),
					IsPV:     e.isPV(),
				}, true
			}
			return TTEntry{}, false
		}
	}

	return TTEntry{}, false
}

// Store writes a search result into the position's cluster, replacing the
// shallowest/stalest entry when no matching key or empty slot exists.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move, isPV bool) {
	cluster := &tt.clusters[clusterIndex(hash, tt.count)]
	key16 := uint16(hash)

	victim := &cluster.entries[0]
	victimScore := -1
	for i := range cluster.entries {
		e := &cluster.entries[i]
		if e.depth8 == 0 || e.key16 == key16 {
			victim = e
			victimScore = -1 << 30
			break
		}
		// Replacement score: shallower and staler entries are preferred
		// victims (depth minus relative age).
		s := int(e.depth8) - int(e.relativeAge(tt.age))
		if victimScore == -1 || s < victimScore {
			victim = e
			victimScore = s
		}
	}

	// Preserve the existing best move if the incoming one is null and the
	// slot already holds this position's move.
	if bestMove == board.NoMove && victim.key16 == key16 && victim.move != board.NoMove {
		bestMove = victim.move
	}

	// Don't downgrade an exact entry with a shallower non-exact result.
	if victim.key16 == key16 && victim.bound() == TTExact && flag != TTExact && depth+1 < int(victim.depth8) {
		return
	}

	if depth < 0 {
		depth = 0
	}
	victim.key16 = key16
	victim.move = bestMove
	victim.score = int16(score)
	victim.depth8 = uint8(depth + 1)
	victim.genBound = packGenBound(tt.age, isPV, flag)
}

// NewSearch bumps the age counter (wrapping modulo ageCycle) at the start of
// every search.
func (tt *TranspositionTable) NewSearch() {
	tt.age = (tt.age + 1) % ageCycle
}

// Clear wipes every entry. Called on "ucinewgame"; does not reallocate.
func (tt *TranspositionTable) Clear() {
	for i := range tt.clusters {
		tt.clusters[i] = ttCluster{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table that holds
// entries from the current search generation.
func (tt *TranspositionTable) HashFull() int {
	sampleClusters := 1000 / entriesPerCluster
	if uint64(sampleClusters) > tt.count {
		sampleClusters = int(tt.count)
	}
	if sampleClusters == 0 {
		return 0
	}

	used := 0
	total := 0
	for i := 0; i < sampleClusters; i++ {
		for _, e := range tt.clusters[i].entries {
			total++
			if e.depth8 != 0 && e.gen() == tt.age {
				used++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return (used * 1000) / total
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries (slots) in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.count * entriesPerCluster
}

// AdjustScoreFromTT adjusts a score read from the transposition table back
// into ply-relative terms. Mate scores are distance-from-root in the table
// but distance-from-current-node everywhere else.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
