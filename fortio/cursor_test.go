package fortio

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/equinor/resdata-sub001/compress"
	"github.com/equinor/resdata-sub001/endian"
	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
	"github.com/stretchr/testify/require"
)

func writeRecords(t *testing.T, opts []Option, payloads ...[]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, opts...)
	require.NoError(t, err)
	for _, p := range payloads {
		require.NoError(t, w.WriteRecord(p))
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// ==============================================================================
// Binary framing
// ==============================================================================

func TestWriteRecord_Framing(t *testing.T) {
	data := writeRecords(t, nil, []byte("abcd"))

	require.Equal(t, []byte{0, 0, 0, 4, 'a', 'b', 'c', 'd', 0, 0, 0, 4}, data)

	little := writeRecords(t, []Option{WithLittleEndian()}, []byte("ab"))
	require.Equal(t, []byte{2, 0, 0, 0, 'a', 'b', 2, 0, 0, 0}, little)
}

func TestReadRecord(t *testing.T) {
	data := writeRecords(t, nil, []byte("first"), []byte{}, []byte("third record"))

	r, err := NewReader(data)
	require.NoError(t, err)
	require.False(t, r.IsFormatted())
	require.Equal(t, ModeRead, r.Mode())

	p, err := r.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, "first", string(p))
	require.Equal(t, int64(13), r.Tell())

	p, err = r.ReadRecord()
	require.NoError(t, err)
	require.Empty(t, p)

	p, err = r.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, "third record", string(p))

	_, err = r.ReadRecord()
	require.ErrorIs(t, err, io.EOF)
	require.True(t, r.AtEOF())
}

func TestReadRecord_Damaged(t *testing.T) {
	good := writeRecords(t, nil, []byte("payload"))

	t.Run("truncated marker", func(t *testing.T) {
		r, err := NewReader(good[:2])
		require.NoError(t, err)
		_, err = r.ReadRecord()
		require.ErrorIs(t, err, errs.ErrTruncated)
		require.ErrorIs(t, err, errs.ErrFatalFormat)
	})

	t.Run("truncated payload", func(t *testing.T) {
		r, err := NewReader(good[:len(good)-1])
		require.NoError(t, err)
		_, err = r.ReadRecord()
		require.ErrorIs(t, err, errs.ErrTruncated)
		require.Zero(t, r.Tell())
	})

	t.Run("marker mismatch", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		binary.BigEndian.PutUint32(bad[len(bad)-4:], 6)

		r, err := NewReader(bad)
		require.NoError(t, err)
		_, err = r.ReadRecord()
		require.ErrorIs(t, err, errs.ErrMarkerMismatch)
	})

	t.Run("negative length", func(t *testing.T) {
		r, err := NewReader([]byte{0xff, 0xff, 0xff, 0xfe, 0, 0, 0, 0})
		require.NoError(t, err)
		_, err = r.ReadRecord()
		require.ErrorIs(t, err, errs.ErrFatalFormat)
	})

	t.Run("wrong byte order", func(t *testing.T) {
		r, err := NewReader(good, WithLittleEndian())
		require.NoError(t, err)
		_, err = r.ReadRecord()
		require.ErrorIs(t, err, errs.ErrFatalFormat)
	})
}

func TestSkipAndSeek(t *testing.T) {
	data := writeRecords(t, nil, []byte("one"), []byte("two"), []byte("three"))

	r, err := NewReader(data)
	require.NoError(t, err)

	size, err := r.PeekRecordSize()
	require.NoError(t, err)
	require.Equal(t, 3, size)
	require.Zero(t, r.Tell())

	require.NoError(t, r.SkipRecord())
	second := r.Tell()
	require.NoError(t, r.SkipRecord())

	p, err := r.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, "three", string(p))

	require.NoError(t, r.Seek(second))
	p, err = r.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, "two", string(p))

	require.NoError(t, r.Rewind())
	require.Zero(t, r.Tell())

	require.ErrorIs(t, r.Seek(-1), errs.ErrSeekOutOfRange)
	require.ErrorIs(t, r.Seek(int64(len(data))+1), errs.ErrRange)
	require.NoError(t, r.Seek(int64(len(data))))
	require.True(t, r.AtEOF())
}

func TestEndianFlip(t *testing.T) {
	big, err := NewReader(nil, WithEndian(endian.GetBigEndianEngine()))
	require.NoError(t, err)
	little, err := NewReader(nil, WithLittleEndian())
	require.NoError(t, err)

	require.NotEqual(t, big.EndianFlip(), little.EndianFlip())
	require.Equal(t, endian.IsNativeLittleEndian(), big.EndianFlip())

	_, err = NewReader(nil, WithEndian(nil))
	require.Error(t, err)
}

func TestWriterStatus(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteRecord([]byte("abc")))
	require.Equal(t, int64(11), w.Tell())
	require.ErrorIs(t, w.Seek(0), errs.ErrNotSeekable)

	_, err = w.ReadRecord()
	require.ErrorIs(t, err, errs.ErrNotReadable)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	require.ErrorIs(t, err, errs.ErrClosed)
}

// ==============================================================================
// Text primitives
// ==============================================================================

func TestTextPrimitives(t *testing.T) {
	text := " 'PRESSURE'           2 'REAL'\n   0.50000000E+01   0.30000000E+00\n"

	r, err := NewReader([]byte(text), WithFormatted(true))
	require.NoError(t, err)
	require.True(t, r.IsFormatted())

	name, err := r.ReadQuoted(8)
	require.NoError(t, err)
	require.Equal(t, "PRESSURE", name)

	tok, err := r.ReadToken()
	require.NoError(t, err)
	require.Equal(t, "2", string(tok))

	tag, err := r.ReadQuoted(4)
	require.NoError(t, err)
	require.Equal(t, "REAL", tag)

	r.SkipLine()
	tok, err = r.ReadToken()
	require.NoError(t, err)
	require.Equal(t, "0.50000000E+01", string(tok))

	tok, err = r.ReadToken()
	require.NoError(t, err)
	require.Equal(t, "0.30000000E+00", string(tok))

	r.SkipLine()
	require.True(t, r.AtEOF())

	_, err = r.ReadToken()
	require.ErrorIs(t, err, io.EOF)
	_, err = r.ReadQuoted(8)
	require.ErrorIs(t, err, io.EOF)
}

func TestReadQuoted_Malformed(t *testing.T) {
	r, err := NewReader([]byte(" 'SHORT'"), WithFormatted(true))
	require.NoError(t, err)
	_, err = r.ReadQuoted(8)
	require.ErrorIs(t, err, errs.ErrTruncated)

	r, err = NewReader([]byte(" XFOPT    X"), WithFormatted(true))
	require.NoError(t, err)
	_, err = r.ReadQuoted(8)
	require.ErrorIs(t, err, errs.ErrBadElement)
}

func TestSkipLine_KeepsContent(t *testing.T) {
	r, err := NewReader([]byte("  12\n"), WithFormatted(true))
	require.NoError(t, err)

	r.SkipLine()
	require.Zero(t, r.Tell())
}

// ==============================================================================
// Files
// ==============================================================================

func TestOpen_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name        string
		formatted   bool
		compression format.CompressionType
	}{
		{"CASE.UNSMRY", false, format.CompressionNone},
		{"CASE.FUNSMRY", true, format.CompressionNone},
		{"CASE.UNSMRY.zst", false, format.CompressionZstd},
		{"CASE.SMSPEC.s2", false, format.CompressionS2},
		{"CASE.S0003.lz4", false, format.CompressionLZ4},
		{"plain.bin", false, format.CompressionNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)

			w, err := Open(path, ModeWrite)
			require.NoError(t, err)
			require.Equal(t, tc.formatted, w.IsFormatted())
			require.Equal(t, tc.compression, w.Compression())

			for i := 0; i < 50; i++ {
				require.NoError(t, w.WriteRecord([]byte("MINISTEP")))
			}
			require.NoError(t, w.Close())

			if tc.compression != format.CompressionNone {
				require.Equal(t, int64(50*16), w.Stats().OriginalSize)
				require.Positive(t, w.Stats().CompressedSize)
			}

			r, err := Open(path, ModeRead)
			require.NoError(t, err)
			require.Equal(t, path, r.Path())
			require.Equal(t, int64(50*16), r.Len())

			count := 0
			for {
				p, err := r.ReadRecord()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				require.Equal(t, "MINISTEP", string(p))
				count++
			}
			require.Equal(t, 50, count)
			require.NoError(t, r.Close())
		})
	}
}

func TestOpen_Append(t *testing.T) {
	for _, name := range []string{"CASE.UNSMRY", "CASE.UNSMRY.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			w, err := Open(path, ModeWrite)
			require.NoError(t, err)
			require.NoError(t, w.WriteRecord([]byte("one")))
			require.NoError(t, w.Close())

			a, err := Open(path, ModeAppend)
			require.NoError(t, err)
			require.Equal(t, int64(11), a.Tell())
			require.NoError(t, a.WriteRecord([]byte("two")))
			require.NoError(t, a.Close())

			r, err := Open(path, ModeRead)
			require.NoError(t, err)
			defer r.Close()

			p, err := r.ReadRecord()
			require.NoError(t, err)
			require.Equal(t, "one", string(p))
			p, err = r.ReadRecord()
			require.NoError(t, err)
			require.Equal(t, "two", string(p))
		})
	}
}

func TestOpen_Options(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit options override the name", func(t *testing.T) {
		path := filepath.Join(dir, "CASE.FUNSMRY")
		w, err := Open(path, ModeWrite, WithFormatted(false), WithCompression(format.CompressionLZ4))
		require.NoError(t, err)
		require.False(t, w.IsFormatted())
		require.Equal(t, format.CompressionLZ4, w.Compression())
		require.NoError(t, w.Close())
	})

	t.Run("empty file without mmap", func(t *testing.T) {
		path := filepath.Join(dir, "EMPTY.UNSMRY")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		for _, opts := range [][]Option{nil, {WithoutMmap()}} {
			r, err := Open(path, ModeRead, opts...)
			require.NoError(t, err)
			_, err = r.ReadRecord()
			require.ErrorIs(t, err, io.EOF)
			require.NoError(t, r.Close())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "MISSING.UNSMRY"), ModeRead)
		require.Error(t, err)
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "X.UNSMRY"), Mode(42))
		require.Error(t, err)
	})

	t.Run("invalid compression", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "X.UNSMRY"), ModeWrite, WithCompression(format.CompressionType(77)))
		require.Error(t, err)
	})
}

func TestFileWriterSeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CASE.UNSMRY")
	w, err := Open(path, ModeWrite)
	require.NoError(t, err)

	require.NoError(t, w.WriteRecord([]byte("aaaa")))
	require.NoError(t, w.Seek(4))
	_, err = w.Write([]byte("bb"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 4, 'b', 'b', 'a', 'a', 0, 0, 0, 4}, data)
}

func TestNewReader_Compressed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CASE.SMSPEC.zst")

	w, err := Open(path, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord([]byte("KEYWORDS")))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	r, err := NewReader(raw, WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	p, err := r.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, "KEYWORDS", string(p))
}

func TestOpen_DetectsZstdWithoutSuffix(t *testing.T) {
	image := writeRecords(t, nil, []byte("PARAMS  "), []byte("MINISTEP"))
	packed, stats, err := compress.Compress(format.CompressionZstd, image)
	require.NoError(t, err)
	require.Equal(t, int64(len(image)), stats.OriginalSize)

	path := filepath.Join(t.TempDir(), "CASE.UNSMRY")
	require.NoError(t, os.WriteFile(path, packed, 0o644))

	r, err := Open(path, ModeRead)
	require.NoError(t, err)
	defer r.Close()

	p, err := r.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, "PARAMS  ", string(p))
	p, err = r.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, "MINISTEP", string(p))
}

func TestModeString(t *testing.T) {
	require.Equal(t, "Read", ModeRead.String())
	require.Equal(t, "Append", ModeAppend.String())
	require.Equal(t, "Unknown", Mode(0).String())
}
