package format

import (
	"testing"

	"github.com/equinor/resdata-sub001/errs"
	"github.com/stretchr/testify/require"
)

func TestDataTypeLayout(t *testing.T) {
	cases := []struct {
		typ     DataType
		tag     string
		width   int
		columns int
		block   int
	}{
		{TypeChar, "CHAR", 8, 7, 105},
		{TypeReal, "REAL", 4, 4, 1000},
		{TypeDoub, "DOUB", 8, 3, 1000},
		{TypeInte, "INTE", 4, 6, 1000},
		{TypeLogi, "LOGI", 4, 25, 1000},
		{TypeMess, "MESS", 0, 1, 105},
	}

	for _, tc := range cases {
		t.Run(tc.tag, func(t *testing.T) {
			require.Equal(t, tc.tag, tc.typ.String())
			require.Equal(t, tc.width, tc.typ.Width())
			require.Equal(t, tc.columns, tc.typ.Columns())
			require.Equal(t, tc.block, tc.typ.BlockSize())
			require.True(t, tc.typ.IsValid())

			parsed, err := ParseDataType(tc.tag)
			require.NoError(t, err)
			require.Equal(t, tc.typ, parsed)
		})
	}
}

func TestParseDataType(t *testing.T) {
	t.Run("padded tag", func(t *testing.T) {
		typ, err := ParseDataType("INTE")
		require.NoError(t, err)
		require.Equal(t, TypeInte, typ)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := ParseDataType("C010")
		require.ErrorIs(t, err, errs.ErrUnknownType)
		require.ErrorIs(t, err, errs.ErrFatalFormat)
	})

	t.Run("invalid value", func(t *testing.T) {
		require.False(t, DataType(0).IsValid())
		require.Equal(t, "Unknown", DataType(42).String())
	})
}

func TestDataTypeClasses(t *testing.T) {
	require.True(t, TypeReal.IsNumeric())
	require.True(t, TypeInte.IsNumeric())
	require.False(t, TypeLogi.IsNumeric())
	require.False(t, TypeChar.IsNumeric())

	require.True(t, TypeLogi.NeedsFlip())
	require.False(t, TypeChar.NeedsFlip())
	require.False(t, TypeMess.NeedsFlip())
}

func TestCompressionType(t *testing.T) {
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "Unknown", CompressionType(9).String())

	c, rest := CompressionFromName("CASE.UNSMRY.zst")
	require.Equal(t, CompressionZstd, c)
	require.Equal(t, "CASE.UNSMRY", rest)

	c, rest = CompressionFromName("CASE.SMSPEC")
	require.Equal(t, CompressionNone, c)
	require.Equal(t, "CASE.SMSPEC", rest)
}
