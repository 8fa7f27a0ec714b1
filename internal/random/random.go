// Package random provides random data generation helpers for use in
// tests and benchmarks.
package random

import (
	"math/rand"
	"time"
)

var rnd = rand.New(rand.NewSource(time.Now().UnixNano()))

// String returns a random string of the given length consisting of
// lowercase latin letters.
func String(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + rnd.Intn('z'-'a'+1))
	}
	return string(b)
}

// Bytes returns a random byte slice of the given length.
func Bytes(n int) []byte {
	b := make([]byte, n)
	rnd.Read(b)
	return b
}

// Int returns a random integer in [min, max).
func Int(minv, maxv int) int {
	return minv + rnd.Intn(maxv-minv)
}

// Uint64 returns a random uint64.
func Uint64() uint64 {
	return rnd.Uint64()
}
