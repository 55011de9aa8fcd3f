// Package compress provides whole-container compression codecs.
//
// Binary and text containers may be stored compressed on disk. The Stream
// Cursor recognises the compression from a file name suffix (".zst", ".s2",
// ".lz4") or an explicit option, decompresses the complete file into memory
// on open, and compresses the accumulated output on close. Record framing is
// applied to the uncompressed bytes, so a compressed container decodes to
// exactly the bytes of its uncompressed twin.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): pass-through
//   - Zstd (format.CompressionZstd): best ratio, pure Go by default; building
//     with the cgozstd tag switches to the cgo binding
//   - S2 (format.CompressionS2): fast, good ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(containerBytes)
//
// # Thread Safety
//
// All codecs are stateless values. Encoders and decoders are drawn from
// sync.Pool instances, so codecs may be shared across goroutines.
package compress
