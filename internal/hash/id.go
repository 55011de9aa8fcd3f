package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Fingerprint hashes an ordered list of keys. Two lists share a fingerprint
// only if they hold the same keys in the same order.
func Fingerprint(keys []string) uint64 {
	d := xxhash.New()
	for _, k := range keys {
		_, _ = d.WriteString(k)
		_, _ = d.Write([]byte{0})
	}

	return d.Sum64()
}
