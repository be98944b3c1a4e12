package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheReturnsSameDecoderForSameFormat(t *testing.T) {
	cache := NewCache()

	d1, err := cache.Get("Qff")
	require.NoError(t, err)

	d2, err := cache.Get("Qff")
	require.NoError(t, err)

	require.Same(t, d1, d2)
	require.Equal(t, 1, cache.Len())
}

func TestCacheDistinctFormatsDoNotCollide(t *testing.T) {
	cache := NewCache()

	_, err := cache.Get("Qff")
	require.NoError(t, err)

	_, err = cache.Get("Bhh")
	require.NoError(t, err)

	require.Equal(t, 2, cache.Len())
}

func TestCacheUnknownCodePropagatesError(t *testing.T) {
	cache := NewCache()

	_, err := cache.Get("Qz")
	require.Error(t, err)
}
