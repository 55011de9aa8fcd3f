// Package endian provides byte order utilities for the binary container.
//
// Binary containers declare their byte order (big-endian unless stated
// otherwise), while record buffers are always held in host order. This
// package supplies the engine used to decode integers from the file and
// the in-place element flipping used when file and host order differ.
//
// # Basic Usage
//
//	engine := endian.GetBigEndianEngine()
//	count := int32(engine.Uint32(header[8:12]))
//
//	// Host order buffer written to a file of foreign order:
//	err := endian.WithFlipped(buf, 4, !endian.CompareNativeEndian(engine), func() error {
//		return cursor.WriteRecord(buf)
//	})
//
// # Thread Safety
//
// The engines are immutable and stateless. Flip and WithFlipped mutate the
// supplied buffer and must not run concurrently with other users of it.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	// The first byte at the lowest address is the MSB only on big-endian hosts.
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetNativeEngine returns the engine matching the host byte order.
func GetNativeEngine() EndianEngine {
	if IsNativeBigEndian() {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// GetDefaultEngine returns the byte order assumed for binary containers
// when none is configured.
func GetDefaultEngine() EndianEngine {
	return binary.BigEndian
}
