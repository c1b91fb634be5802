// Package persist backs the optional UCI "PersistHash" option: a small
// on-disk cache of root move/score pairs searched to high depth, so a
// position re-encountered in a later process (not a later ply of the same
// search, which the in-memory transposition table already covers) can skip
// straight to a remembered answer. This is table persistence, not opening
// book learning: an entry is overwritten by every later result deep enough
// to be persisted, whatever depth the stored entry had, and nothing here
// adapts based on game outcomes.
package persist

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
)

// Entry is a remembered root search result.
type Entry struct {
	Move  uint16 // board.Move, kept as a bare uint16 to avoid importing board
	Score int16
	Depth uint8
}

// Store wraps a BadgerDB instance keyed by a namespaced hash of the
// position's zobrist key.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the persistent hash store rooted at
// dir. Badger's own logger is silenced to keep it out of UCI's stdout-only
// protocol stream.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// key derives the 8-byte Badger key for a zobrist hash. Rehashing through
// xxhash (rather than using the zobrist bits directly) leaves room to add
// other key families to the same database later without them colliding
// with position entries.
func key(hash uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], hash)
	sum := xxhash.Sum64(buf[:])
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], sum)
	return out[:]
}

func encode(e Entry) []byte {
	var buf [5]byte
	binary.BigEndian.PutUint16(buf[0:2], e.Move)
	binary.BigEndian.PutUint16(buf[2:4], uint16(e.Score))
	buf[4] = e.Depth
	return buf[:]
}

func decode(buf []byte) (Entry, bool) {
	if len(buf) != 5 {
		return Entry{}, false
	}
	return Entry{
		Move:  binary.BigEndian.Uint16(buf[0:2]),
		Score: int16(binary.BigEndian.Uint16(buf[2:4])),
		Depth: buf[4],
	}, true
}

// Get looks up the remembered result for a position hash.
func (s *Store) Get(hash uint64) (Entry, bool) {
	var entry Entry
	var found bool

	_ = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			entry, found = decode(val)
			return nil
		})
	})

	return entry, found
}

// Put stores a result, replacing any existing entry for the same hash.
// Callers should only persist deep, stable searches: PersistHash is meant
// for slow analysis runs, not every "go".
func (s *Store) Put(hash uint64, e Entry) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(hash), encode(e))
	})
}
