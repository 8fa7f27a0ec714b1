package mvcc

import "bytes"

// Batch is a set of changes to be committed atomically. A key staged
// multiple times keeps the last change only. Batch is not safe for
// concurrent use.
type Batch struct {
	changes map[string][]byte // nil value marks a deletion
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{changes: make(map[string][]byte)}
}

// Put stages storing value under key. Both slices are copied, the
// caller is free to reuse them. A nil value is stored as an empty one,
// values and deletions are distinct.
func (b *Batch) Put(key, value []byte) {
	if value == nil {
		value = []byte{}
	}
	b.changes[string(key)] = bytes.Clone(value)
}

// Delete stages removal of key.
func (b *Batch) Delete(key []byte) {
	b.changes[string(key)] = nil
}

// Len returns the number of staged changes.
func (b *Batch) Len() int {
	return len(b.changes)
}
