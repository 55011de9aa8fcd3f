package record

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/equinor/resdata-sub001/endian"
	"github.com/equinor/resdata-sub001/errs"
	"github.com/equinor/resdata-sub001/format"
	"github.com/equinor/resdata-sub001/fortio"
)

// ==============================================================================
// Binary layout
// ==============================================================================

func TestWrite_BinaryLayout(t *testing.T) {
	r, err := FromInts("COUNTS", []int32{5, -5, 0})
	require.NoError(t, err)

	expected := []byte{
		0, 0, 0, 16,
		'C', 'O', 'U', 'N', 'T', 'S', ' ', ' ',
		0, 0, 0, 3,
		'I', 'N', 'T', 'E',
		0, 0, 0, 16,
		0, 0, 0, 12,
		0, 0, 0, 5,
		0xff, 0xff, 0xff, 0xfb,
		0, 0, 0, 0,
		0, 0, 0, 12,
	}
	require.Equal(t, expected, encode(t, nil, r))

	back, err := Read(decode(t, expected))
	require.NoError(t, err)
	values, err := Values[int32](back)
	require.NoError(t, err)
	require.Equal(t, []int32{5, -5, 0}, values)
}

func TestWrite_BlockSplitting(t *testing.T) {
	t.Run("numeric", func(t *testing.T) {
		values := make([]int32, 2500)
		for i := range values {
			values[i] = int32(i)
		}
		r, err := FromInts("BIG", values)
		require.NoError(t, err)

		data := encode(t, nil, r)
		require.Len(t, data, 24+3*8+2500*4)

		c := decode(t, data)
		_, err = ReadHeader(c)
		require.NoError(t, err)
		for _, n := range []int{1000, 1000, 500} {
			size, err := c.PeekRecordSize()
			require.NoError(t, err)
			require.Equal(t, n*4, size)
			require.NoError(t, c.SkipRecord())
		}

		back, err := Read(decode(t, data))
		require.NoError(t, err)
		require.True(t, r.Equal(back))
	})

	t.Run("strings", func(t *testing.T) {
		names := make([]string, 210)
		for i := range names {
			names[i] = "W"
		}
		r, err := FromStrings("NAMES", names)
		require.NoError(t, err)

		data := encode(t, nil, r)
		require.Len(t, data, 24+2*8+210*8)
	})
}

func TestWrite_ForeignByteOrderKeepsSource(t *testing.T) {
	r, err := FromDoubles("TIME", []float64{1.5, 2.5})
	require.NoError(t, err)
	before := bytes.Clone(r.Data())

	data := encode(t, []fortio.Option{fortio.WithEndian(foreignEngine())}, r)
	require.Equal(t, before, r.Data())

	// The file holds the foreign representation.
	payload := data[24+4 : 24+4+8]
	require.Equal(t, 1.5, mathFloat64(foreignEngine(), payload))

	back, err := Read(decode(t, data, fortio.WithEndian(foreignEngine())))
	require.NoError(t, err)
	require.True(t, r.Equal(back))
}

func TestRoundTrip(t *testing.T) {
	engines := map[string]endian.EndianEngine{
		"big":    endian.GetBigEndianEngine(),
		"little": endian.GetLittleEndianEngine(),
	}

	for engineName, engine := range engines {
		for _, formatted := range []bool{false, true} {
			name := engineName + "/binary"
			if formatted {
				name = engineName + "/text"
			}

			t.Run(name, func(t *testing.T) {
				recs := sampleRecords(t)
				opts := []fortio.Option{fortio.WithEndian(engine), fortio.WithFormatted(formatted)}

				back, err := ReadAll(decode(t, encode(t, opts, recs...), opts...))
				require.NoError(t, err)
				require.Len(t, back, len(recs))
				for i := range recs {
					require.Truef(t, recs[i].Equal(back[i]), "record %s: %v != %v", recs[i].Name(), recs[i], back[i])
				}
			})
		}
	}
}

// ==============================================================================
// Text layout
// ==============================================================================

func TestText_Read(t *testing.T) {
	input := " 'PRESSURE'           2 'REAL'\n  0.50000000E+01  0.30000000E+00\n"

	r, err := Read(decode(t, []byte(input), fortio.WithFormatted(true)))
	require.NoError(t, err)
	require.Equal(t, "PRESSURE", r.Name())
	require.Equal(t, format.TypeReal, r.Type())

	values, err := Values[float32](r)
	require.NoError(t, err)
	require.Equal(t, []float32{5.0, 0.3}, values)
}

func TestText_Write(t *testing.T) {
	t.Run("real", func(t *testing.T) {
		r, err := FromFloats("PRESSURE", []float32{5, 0.25})
		require.NoError(t, err)

		out := encode(t, []fortio.Option{fortio.WithFormatted(true)}, r)
		require.Equal(t, " 'PRESSURE'           2 'REAL'\n   0.50000000E+01   0.25000000E+00\n", string(out))
	})

	t.Run("double", func(t *testing.T) {
		r, err := FromDoubles("TIME", []float64{-2.5})
		require.NoError(t, err)

		out := encode(t, []fortio.Option{fortio.WithFormatted(true)}, r)
		require.Equal(t, " 'TIME    '           1 'DOUB'\n  -0.25000000000000D+01\n", string(out))
	})

	t.Run("columns", func(t *testing.T) {
		r, err := FromInts("NUMS", []int32{1, 2, 3, 4, 5, 6, 7})
		require.NoError(t, err)

		out := string(encode(t, []fortio.Option{fortio.WithFormatted(true)}, r))
		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		require.Len(t, lines, 3)
		require.Equal(t, strings.Repeat(" ", 11)+"7", lines[2])
		require.Equal(t, 6*12, len(lines[1]))
	})

	t.Run("logical and strings", func(t *testing.T) {
		b, err := FromBools("FLAGS", []bool{true, false})
		require.NoError(t, err)
		s, err := FromStrings("NAMES", []string{"OP_1"})
		require.NoError(t, err)

		out := string(encode(t, []fortio.Option{fortio.WithFormatted(true)}, b, s))
		require.Contains(t, out, "\n  T  F\n")
		require.Contains(t, out, "\n 'OP_1    '\n")
	})

	t.Run("block ends the line", func(t *testing.T) {
		values := make([]int32, 1001)
		r, err := FromInts("BIG", values)
		require.NoError(t, err)

		out := string(encode(t, []fortio.Option{fortio.WithFormatted(true)}, r))
		// 1000 elements in rows of six: 166 full rows plus one of four.
		// The final element gets its own block and row.
		require.Equal(t, 1+167+1, strings.Count(out, "\n"))
	})
}

func TestText_ReadIsWhitespaceInsensitive(t *testing.T) {
	input := "'NUMS    '\n 3\n'INTE'   1\n\n 2    3"

	r, err := Read(decode(t, []byte(input), fortio.WithFormatted(true)))
	require.NoError(t, err)

	values, err := Values[int32](r)
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3}, values)
}

func TestText_Errors(t *testing.T) {
	read := func(input string) error {
		c, err := fortio.NewReader([]byte(input), fortio.WithFormatted(true))
		require.NoError(t, err)
		_, err = Read(c)

		return err
	}

	t.Run("bad element", func(t *testing.T) {
		err := read(" 'X       '           1 'INTE'\n  abc\n")
		require.ErrorIs(t, err, errs.ErrBadElement)
	})

	t.Run("bad logical", func(t *testing.T) {
		err := read(" 'X       '           1 'LOGI'\n  Y\n")
		require.ErrorIs(t, err, errs.ErrBadElement)
	})

	t.Run("bad count", func(t *testing.T) {
		err := read(" 'X       '         -1 'INTE'\n")
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
	})

	t.Run("unknown type", func(t *testing.T) {
		err := read(" 'X       '           1 'QQQQ'\n 1\n")
		require.ErrorIs(t, err, errs.ErrUnknownType)
	})

	t.Run("missing elements", func(t *testing.T) {
		err := read(" 'X       '           3 'INTE'\n 1 2\n")
		require.ErrorIs(t, err, errs.ErrTruncated)
	})
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		x        float64
		mantissa float64
		exp      int
	}{
		{0, 0, 0},
		{5, 0.5, 1},
		{-5, -0.5, 1},
		{0.25, 0.25, 0},
		{10, 0.1, 2},
		{1000, 0.1, 4},
		{1234.5, 0.12345, 4},
	}

	for _, tt := range tests {
		mantissa, exp := Decompose(tt.x)
		require.InDeltaf(t, tt.mantissa, mantissa, 1e-12, "x=%v", tt.x)
		require.Equalf(t, tt.exp, exp, "x=%v", tt.x)
	}
}

// ==============================================================================
// Damaged binary input
// ==============================================================================

func TestRead_Damaged(t *testing.T) {
	r, err := FromInts("COUNTS", []int32{5, -5, 0})
	require.NoError(t, err)
	good := encode(t, nil, r)

	t.Run("header only", func(t *testing.T) {
		_, err := Read(decode(t, good[:24]))
		require.ErrorIs(t, err, errs.ErrTruncated)
		require.ErrorIs(t, err, errs.ErrFatalFormat)
	})

	t.Run("wrong block size", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := fortio.NewWriter(&buf)
		require.NoError(t, err)
		require.NoError(t, r.WriteHeader(w))
		require.NoError(t, w.WriteRecord(make([]byte, 8)))
		require.NoError(t, w.Close())

		_, err = Read(decode(t, buf.Bytes()))
		require.ErrorIs(t, err, errs.ErrBlockSize)
	})

	t.Run("bad header payload", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := fortio.NewWriter(&buf)
		require.NoError(t, err)
		require.NoError(t, w.WriteRecord([]byte("short")))
		require.NoError(t, w.Close())

		_, err = Read(decode(t, buf.Bytes()))
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
	})

	t.Run("failed read keeps buffer", func(t *testing.T) {
		dst, err := FromInts("COUNTS", []int32{1, 2, 3})
		require.NoError(t, err)
		c := decode(t, good[:24])
		require.NoError(t, dst.ReadHeader(c))
		require.Error(t, dst.ReadData(c))

		values, err := Values[int32](dst)
		require.NoError(t, err)
		require.Equal(t, []int32{1, 2, 3}, values)
	})
}

// ==============================================================================
// Navigation
// ==============================================================================

func navigationFile(t *testing.T, formatted bool) *fortio.Cursor {
	t.Helper()

	var recs []*Record
	for _, name := range []string{"ALPHA", "BETA", "GAMMA"} {
		r, err := FromInts(name, []int32{1, 2, 3})
		require.NoError(t, err)
		recs = append(recs, r)
	}
	opts := []fortio.Option{fortio.WithFormatted(formatted)}

	return decode(t, encode(t, opts, recs...), opts...)
}

func TestSeekToName(t *testing.T) {
	for _, formatted := range []bool{false, true} {
		t.Run(map[bool]string{false: "binary", true: "text"}[formatted], func(t *testing.T) {
			c := navigationFile(t, formatted)

			found, err := SeekToName(c, "BETA", false, true)
			require.NoError(t, err)
			require.True(t, found)

			r, err := Read(c)
			require.NoError(t, err)
			require.Equal(t, "BETA", r.Name())

			pos := c.Tell()
			found, err = SeekToName(c, "ALPHA", false, false)
			require.NoError(t, err)
			require.False(t, found)
			require.Equal(t, pos, c.Tell())

			found, err = SeekToName(c, "ALPHA", true, false)
			require.NoError(t, err)
			require.True(t, found)
			require.Zero(t, c.Tell())

			_, err = SeekToName(c, "MISSING", true, true)
			require.ErrorIs(t, err, errs.ErrRecordNotFound)
			require.Zero(t, c.Tell())

			_, err = SeekToName(c, "NINECHARS", true, true)
			require.ErrorIs(t, err, errs.ErrNameTooLong)
		})
	}
}

func TestSkip(t *testing.T) {
	for _, formatted := range []bool{false, true} {
		c := navigationFile(t, formatted)

		require.NoError(t, Skip(c))
		h, err := ReadHeader(c)
		require.NoError(t, err)
		require.Equal(t, "BETA", h.Name)
		require.NoError(t, SkipData(c, h))

		r, err := Read(c)
		require.NoError(t, err)
		require.Equal(t, "GAMMA", r.Name())
		require.True(t, c.AtEOF())
	}
}

func mathFloat64(engine endian.EndianEngine, b []byte) float64 {
	return math.Float64frombits(engine.Uint64(b))
}
