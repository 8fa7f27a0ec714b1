// Package mvcc implements a versioned key-value store on top of the
// persistent trie. Every commit produces a new immutable snapshot
// identified by a monotonically increasing version, readers address any
// retained version without blocking writers and without locks. The
// store serializes writers itself (the trie doesn't merge divergent
// versions) and persists every commit to a storage backend, replaying
// the commit log on startup.
package mvcc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/vkv-dev/vkv/pkg/storage"
	"github.com/vkv-dev/vkv/pkg/trie"
	"go.uber.org/zap"
)

// Version identifies a committed snapshot. Version 0 is the implicit
// empty snapshot every store starts from.
type Version uint64

// defaultSnapshotCacheSize is the number of historical snapshots
// retained for readers besides the current one.
const defaultSnapshotCacheSize = 128

// Value flags of the commit log entries.
const (
	entryPut    byte = 0x00
	entryDelete byte = 0x01
)

var (
	// ErrVersionNotFound is returned when the requested version has
	// never been committed.
	ErrVersionNotFound = errors.New("version not found")
	// ErrVersionEvicted is returned when the requested version existed
	// but is no longer retained by the snapshot cache.
	ErrVersionEvicted = errors.New("version evicted from snapshot cache")
	// ErrKeyNotFound is returned when the requested key is missing from
	// the addressed snapshot.
	ErrKeyNotFound = errors.New("key not found")
)

// Options customize store behavior.
type Options struct {
	// SnapshotCacheSize limits the number of historical versions kept
	// addressable in memory. Non-positive values select the default.
	SnapshotCacheSize int
}

// Store is a versioned key-value store. All reads are served from
// immutable trie snapshots; a commit atomically persists its changes
// and publishes a new snapshot.
type Store struct {
	log *zap.Logger
	dao storage.Store

	// writeLock serializes commits, mtx only guards the published
	// state so that readers never wait for backend I/O.
	writeLock sync.Mutex
	mtx       sync.RWMutex
	current   trie.Trie
	version   Version
	keys      int

	snapshots *lru.Cache
}

// NewStore opens a versioned store over the given backend, replaying
// the persisted commit log to recover the latest snapshot.
func NewStore(dao storage.Store, log *zap.Logger, opts Options) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	size := opts.SnapshotCacheSize
	if size <= 0 {
		size = defaultSnapshotCacheSize
	}
	cache, _ := lru.New(size) // Never errors for positive size.

	s := &Store{
		log:       log,
		dao:       dao,
		snapshots: cache,
	}
	if err := s.recover(); err != nil {
		return nil, fmt.Errorf("failed to recover commit log: %w", err)
	}
	updateStoreMetrics(s.version, s.keys)
	s.log.Info("versioned store is ready",
		zap.Uint64("version", uint64(s.version)),
		zap.Int("keys", s.keys))
	return s, nil
}

// recover replays persisted commits in version order rebuilding the
// current snapshot.
func (s *Store) recover() error {
	stored, err := s.dao.Get(storage.SYSCurrentVersion.Bytes())
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil // Fresh database.
		}
		return err
	}
	if len(stored) != 8 {
		return fmt.Errorf("malformed current version record: %x", stored)
	}
	target := Version(binary.BigEndian.Uint64(stored))

	var (
		cur      = trie.New()
		last     Version
		replayed int
	)
	s.dao.Seek(storage.SeekRange{Prefix: storage.DataEntry.Bytes()}, func(k, v []byte) bool {
		version, key, perr := parseEntryKey(k)
		if perr != nil {
			err = perr
			return false
		}
		if len(v) == 0 {
			err = fmt.Errorf("empty commit log entry for key %x", k)
			return false
		}
		_, existed := trie.Get[[]byte](cur, key)
		switch v[0] {
		case entryPut:
			cur = trie.Put(cur, key, bytes.Clone(v[1:]))
			if !existed {
				s.keys++
			}
		case entryDelete:
			cur = cur.Remove(key)
			if existed {
				s.keys--
			}
		default:
			err = fmt.Errorf("unknown commit log entry flag %#x", v[0])
			return false
		}
		last = version
		replayed++
		return true
	})
	if err != nil {
		return err
	}
	if last > target {
		return fmt.Errorf("commit log runs ahead of the current version record: %d > %d", last, target)
	}
	s.current = cur
	s.version = target
	s.snapshots.Add(target, cur)
	if replayed > 0 {
		s.log.Debug("commit log replayed", zap.Int("entries", replayed))
	}
	return nil
}

// CurrentVersion returns the version of the latest committed snapshot.
func (s *Store) CurrentVersion() Version {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.version
}

// Snapshot returns the immutable snapshot for the given version. The
// current version and version 0 are always available, older ones for
// as long as the snapshot cache retains them.
func (s *Store) Snapshot(v Version) (trie.Trie, error) {
	s.mtx.RLock()
	current, currentVersion := s.current, s.version
	s.mtx.RUnlock()

	switch {
	case v == currentVersion:
		return current, nil
	case v > currentVersion:
		return trie.Trie{}, ErrVersionNotFound
	case v == 0:
		return trie.New(), nil
	}
	if snap, ok := s.snapshots.Get(v); ok {
		return snap.(trie.Trie), nil
	}
	return trie.Trie{}, ErrVersionEvicted
}

// Get returns the value stored under key in the given version.
func (s *Store) Get(v Version, key []byte) ([]byte, error) {
	snap, err := s.Snapshot(v)
	if err != nil {
		return nil, err
	}
	val, ok := trie.Get[[]byte](snap, key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return val, nil
}

// GetLatest returns the value stored under key in the latest snapshot.
func (s *Store) GetLatest(key []byte) ([]byte, error) {
	return s.Get(s.CurrentVersion(), key)
}

// Commit atomically applies the batch producing a new version. An empty
// batch is rejected. The batch must not be reused afterwards.
func (s *Store) Commit(b *Batch) (Version, error) {
	if b.Len() == 0 {
		return 0, errors.New("empty batch")
	}
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	next := s.version + 1
	cur := s.current
	keys := s.keys

	puts := make(map[string][]byte, len(b.changes)+1)
	for k, v := range b.changes {
		key := []byte(k)
		_, existed := trie.Get[[]byte](cur, key)
		if v != nil {
			cur = trie.Put(cur, key, v)
			if !existed {
				keys++
			}
			puts[string(entryKey(next, key))] = append([]byte{entryPut}, v...)
		} else {
			cur = cur.Remove(key)
			if existed {
				keys--
			}
			puts[string(entryKey(next, key))] = []byte{entryDelete}
		}
	}
	puts[string(storage.SYSCurrentVersion.Bytes())] = binary.BigEndian.AppendUint64(nil, uint64(next))

	if err := s.dao.PutChangeSet(puts); err != nil {
		return 0, fmt.Errorf("failed to persist version %d: %w", next, err)
	}

	s.mtx.Lock()
	s.current = cur
	s.version = next
	s.keys = keys
	s.mtx.Unlock()
	s.snapshots.Add(next, cur)

	commitsCounter.Inc()
	updateStoreMetrics(next, keys)
	s.log.Debug("batch committed",
		zap.Uint64("version", uint64(next)),
		zap.Int("changes", b.Len()))
	return next, nil
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.dao.Close()
}

// entryKey builds the commit log key for the given version and user
// key: prefix, 8-byte big-endian version, user key. Big-endian versions
// make the log iterate in commit order.
func entryKey(v Version, key []byte) []byte {
	res := make([]byte, 0, 9+len(key))
	res = append(res, byte(storage.DataEntry))
	res = binary.BigEndian.AppendUint64(res, uint64(v))
	return append(res, key...)
}

func parseEntryKey(k []byte) (Version, []byte, error) {
	if len(k) < 9 || k[0] != byte(storage.DataEntry) {
		return 0, nil, fmt.Errorf("malformed commit log key: %x", k)
	}
	return Version(binary.BigEndian.Uint64(k[1:9])), k[9:], nil
}
