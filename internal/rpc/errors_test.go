package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDataError mimics the provider error shape go-ethereum exposes as
// rpc.DataError.
type fakeDataError struct {
	msg  string
	data interface{}
}

func (e *fakeDataError) Error() string          { return e.msg }
func (e *fakeDataError) ErrorData() interface{} { return e.data }

func TestIsTooManyResultsError(t *testing.T) {
	ok, msg := IsTooManyResultsError(&fakeDataError{
		msg:  "query exceeded limit",
		data: "Query returned more than 20000 results. Try with this block range [0x7dfd25, 0x7e0fcc].",
	})
	require.True(t, ok)
	require.Contains(t, msg, "block range")

	ok, _ = IsTooManyResultsError(&fakeDataError{msg: "boom", data: "internal error"})
	require.False(t, ok)

	ok, _ = IsTooManyResultsError(errors.New("plain error"))
	require.False(t, ok)

	ok, _ = IsTooManyResultsError(nil)
	require.False(t, ok)

	// Wrapped provider errors are still recognized.
	wrapped := fmt.Errorf("fetching logs: %w", &fakeDataError{
		msg:  "limit",
		data: "Query returned more than 10000 results. Try with this block range [0x1, 0xff].",
	})
	ok, _ = IsTooManyResultsError(wrapped)
	require.True(t, ok)
}

func TestParseSuggestedBlockRange(t *testing.T) {
	from, to, ok := ParseSuggestedBlockRange(
		"Query returned more than 20000 results. Try with this block range [0x7dfd25, 0x7e0fcc].")
	require.True(t, ok)
	require.Equal(t, uint64(0x7dfd25), from)
	require.Equal(t, uint64(0x7e0fcc), to)

	_, _, ok = ParseSuggestedBlockRange("no range here")
	require.False(t, ok)

	_, _, ok = ParseSuggestedBlockRange("")
	require.False(t, ok)
}
