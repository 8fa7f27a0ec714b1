// Package storage provides the persistent KV backends the versioned
// store writes its commit log to.
package storage

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// KeyPrefix constants.
const (
	// DataEntry prefixes committed key-value changes, the rest of the
	// key is an 8-byte big-endian version followed by the user key.
	DataEntry KeyPrefix = 0x01
	// SYSCurrentVersion is the key under which the latest committed
	// version number is stored.
	SYSCurrentVersion KeyPrefix = 0xc0
)

// ErrKeyNotFound is an error returned by Store implementations
// when a certain key is not found.
var ErrKeyNotFound = errors.New("key not found")

type (
	// Store is the underlying KV backend for committed data. It only
	// sees opaque prefixed keys, all versioning logic lives above it.
	Store interface {
		Get([]byte) ([]byte, error)
		Put(key, value []byte) error
		// PutChangeSet persists the given set of changes atomically.
		// A nil value denotes key removal.
		PutChangeSet(puts map[string][]byte) error
		// Seek iterates over key-value pairs with the matching prefix
		// in ascending (or descending for Backwards ranges) key order
		// until false is returned from f. Slices passed to f are only
		// valid until the next call to f.
		Seek(rng SeekRange, f func(k, v []byte) bool)
		Close() error
	}

	// KeyPrefix is a constant byte added as a prefix for each key
	// stored.
	KeyPrefix uint8
)

// SeekRange represents options for the Store.Seek operation.
type SeekRange struct {
	// Prefix denotes the Seek's lookup key.
	Prefix []byte
	// Start denotes the value appended to the Prefix to start Seek
	// from. It may be empty, in which case all keys matching Prefix
	// are iterated over.
	Start []byte
	// Backwards denotes whether Seek direction should be reversed.
	Backwards bool
}

// KeyValue represents a key-value pair.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// Bytes returns the bytes representation of KeyPrefix.
func (k KeyPrefix) Bytes() []byte {
	return []byte{byte(k)}
}

// NewStore creates storage with the database type preselected in the
// configuration.
func NewStore(cfg DBConfiguration) (Store, error) {
	var store Store
	var err error
	switch cfg.Type {
	case "leveldb":
		store, err = NewLevelDBStore(cfg.LevelDBOptions)
	case "inmemory":
		store = NewMemoryStore()
	case "boltdb":
		store, err = NewBoltDBStore(cfg.BoltDBOptions)
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Type)
	}
	return store, err
}

func seekRangeToPrefixes(sr SeekRange) *util.Range {
	var (
		rang  *util.Range
		start = make([]byte, len(sr.Prefix)+len(sr.Start))
	)
	copy(start, sr.Prefix)
	copy(start[len(sr.Prefix):], sr.Start)

	if !sr.Backwards {
		rang = util.BytesPrefix(sr.Prefix)
		rang.Start = start
	} else {
		rang = util.BytesPrefix(start)
		rang.Start = sr.Prefix
	}
	return rang
}
