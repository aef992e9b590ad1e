package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string. Used to derive fixed-size
// registry keys from caller-provided file identifiers.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of the given bytes. Used for archive entry
// checksums.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
