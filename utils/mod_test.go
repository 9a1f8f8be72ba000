package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]int{3, 5, 7}, 5))
	require.Equal(t, -1, FindIndex([]int{3, 5, 7}, 4))
	require.Equal(t, -1, FindIndex([]string(nil), "a"))
	require.True(t, Contains([]int{1, 3, 5, 7}, 7))
	require.False(t, Contains([]int{1, 3, 5, 7}, 4))
}

func TestArgMax(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		require.Equal(t, -1, ArgMax([]float64{}))
	})
	t.Run("first of equal maxima", func(t *testing.T) {
		require.Equal(t, 1, ArgMax([]float64{0.1, 0.7, 0.2, 0.7}))
	})
	t.Run("negative values", func(t *testing.T) {
		require.Equal(t, 2, ArgMax([]int{-5, -3, -1}))
	})
}
