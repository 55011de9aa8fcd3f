package compress

// ZstdCompressor stores a container as one zstd frame.
//
// The implementation is chosen at build time: the pure Go encoder from
// klauspost/compress by default, or the cgo binding to libzstd when built
// with the cgozstd tag. Both write standard frames, so containers written by
// one read with the other.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates the zstd codec.
func NewZstdCompressor() ZstdCompressor { return ZstdCompressor{} }
