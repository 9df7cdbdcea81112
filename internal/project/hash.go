package project

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Digest is a SHA-256 sum. It has the layout of source.File.Hash, so a
// file hash converts without copying.
type Digest [sha256.Size]byte

// Hex is the lower-case hex form used for cache file names.
func (d Digest) Hex() string { return hex.EncodeToString(d[:]) }

// Combine folds content and deps into one cache key. The dep count goes in
// first: Combine(a) and Combine(a, Digest{}) differ.
func Combine(content Digest, deps ...Digest) Digest {
	buf := make([]byte, 0, 8+sha256.Size*(1+len(deps)))
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(deps)))
	buf = append(buf, content[:]...)
	for _, d := range deps {
		buf = append(buf, d[:]...)
	}
	return sha256.Sum256(buf)
}
