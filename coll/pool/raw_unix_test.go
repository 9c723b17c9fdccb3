//go:build unix

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_MmapRaw_ServesPool(t *testing.T) {
	a := New(&Config{Raw: NewMmapRaw()})

	b, err := a.Allocate(64)
	require.NoError(t, err)
	require.Len(t, b, 64)

	// Mapped pages are writable and retain data.
	for i := range b {
		b[i] = byte(i)
	}
	for i := range b {
		require.Equal(t, byte(i), b[i])
	}

	require.NoError(t, a.Deallocate(b, 64))

	b2, err := a.Allocate(64)
	require.NoError(t, err)
	require.Equal(t, &b[0], &b2[0])
}
