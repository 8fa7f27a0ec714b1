package storage

import (
	"testing"
)

func newMemoryStoreForTesting(t testing.TB) Store {
	return NewMemoryStore()
}
