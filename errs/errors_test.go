package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{ErrTruncated, ErrFatalFormat},
		{ErrMarkerMismatch, ErrFatalFormat},
		{ErrUnknownType, ErrFatalFormat},
		{ErrRecordNotFound, ErrFatalFormat},
		{ErrCorruptData, ErrFatalFormat},
		{ErrKeyNotFound, ErrLookup},
		{ErrUnmappedSlot, ErrLookup},
		{ErrTimeOutOfRange, ErrRange},
		{ErrIndexOutOfRange, ErrRange},
		{ErrCountMismatch, ErrSizeMismatch},
		{ErrBorrowedBuffer, ErrSizeMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			require.ErrorIs(t, tc.err, tc.kind)

			wrapped := fmt.Errorf("reading PARAMS: %w", tc.err)
			require.ErrorIs(t, wrapped, tc.err)
			require.ErrorIs(t, wrapped, tc.kind)
		})
	}
}

func TestKindsAreDistinct(t *testing.T) {
	require.False(t, errors.Is(ErrTruncated, ErrLookup))
	require.False(t, errors.Is(ErrKeyNotFound, ErrFatalFormat))
	require.False(t, errors.Is(ErrTimeOutOfRange, ErrSizeMismatch))
}
