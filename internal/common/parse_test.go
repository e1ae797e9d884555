package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUint64orHex(t *testing.T) {
	decimal := "1234"
	got, err := ParseUint64orHex(&decimal)
	require.NoError(t, err)
	require.Equal(t, uint64(1234), got)

	hex := "0x64"
	got, err = ParseUint64orHex(&hex)
	require.NoError(t, err)
	require.Equal(t, uint64(100), got)

	got, err = ParseUint64orHex(nil)
	require.NoError(t, err)
	require.Equal(t, uint64(0), got)

	bad := "0xzz"
	_, err = ParseUint64orHex(&bad)
	require.Error(t, err)
}

func TestToLowerWithTrim(t *testing.T) {
	require.Equal(t, "alice", ToLowerWithTrim("  Alice "))
	require.Equal(t, "", ToLowerWithTrim("   "))
}
