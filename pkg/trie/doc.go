/*
Package trie implements a persistent (immutable) prefix trie.

The trie maps byte-sequence keys to values of arbitrary types. Put and
Remove never modify the trie they're called on, they return a new Trie
handle instead. Nodes that are not on the updated path are shared between
the old and the new version, so a write allocates O(len(key)) nodes no
matter how big the trie is, and every previously obtained handle stays
valid and queryable forever.

Since published nodes are never mutated, any number of goroutines can
call Get on any set of handles without synchronization, and a writer
producing a new version can't affect readers of old ones. The package
does not serialize writers: two goroutines deriving new versions from
the same handle get two independent tries, reconciling them is the
caller's job.

Keys are raw byte sequences. For encoded text (UTF-8 and friends) the
trie operates on code units, not on characters or grapheme clusters,
callers that need character-level semantics must normalize keys
themselves.
*/
package trie
