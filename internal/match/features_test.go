package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFeatures(t *testing.T) {
	params := DefaultParams()

	t.Run("brand and complex number", func(t *testing.T) {
		f := ExtractFeatures("래미안강남파크1단지", params)
		assert.Equal(t, []string{"래미안"}, f.Brands)
		assert.Equal(t, 1, f.ComplexNo)
		assert.False(t, f.Rental)
	})

	t.Run("village name with digits stripped", func(t *testing.T) {
		f := ExtractFeatures("후곡마을10단지", params)
		assert.Equal(t, "후곡", f.Village)
		assert.Equal(t, 10, f.ComplexNo)
	})

	t.Run("parenthetical brand and number", func(t *testing.T) {
		f := ExtractFeatures("후곡마을(건영15)", params)
		assert.Equal(t, "건영", f.ParenBrand)
		assert.Equal(t, 15, f.ParenNo)
		assert.Empty(t, f.Brands)
	})

	t.Run("brand subsumption keeps the longest", func(t *testing.T) {
		f := ExtractFeatures("해운대두산위브더제니스", params)
		assert.Equal(t, []string{"두산위브더제니스"}, f.Brands)
	})

	t.Run("phase from 차 marker", func(t *testing.T) {
		f := ExtractFeatures("삼성래미안2차", params)
		assert.Equal(t, 2, f.PhaseNo)
		assert.Equal(t, 2, f.ComplexNo)
	})

	t.Run("bare trailing number within phase range", func(t *testing.T) {
		f := ExtractFeatures("우성3", params)
		assert.Equal(t, 3, f.PhaseNo)
		assert.Equal(t, 0, f.ComplexNo)
	})

	t.Run("large building number becomes complex id", func(t *testing.T) {
		f := ExtractFeatures("주공104동", params)
		assert.Equal(t, 104, f.ComplexNo)
	})

	t.Run("rental classification", func(t *testing.T) {
		f := ExtractFeatures("강남주공그린빌", params)
		assert.True(t, f.Rental)
	})

	t.Run("empty name", func(t *testing.T) {
		f := ExtractFeatures("", params)
		assert.Empty(t, f.Normalized)
		assert.Empty(t, f.Brands)
		assert.Zero(t, f.ComplexNo)
	})
}

func TestFeatureCache(t *testing.T) {
	cache := NewFeatureCache(DefaultParams())

	first := cache.Get("래미안강남파크1단지")
	second := cache.Get("래미안강남파크1단지")
	require.Same(t, first, second, "repeated names must be computed once")
	assert.Equal(t, 1, cache.Len())

	cache.Get("자이2단지")
	assert.Equal(t, 2, cache.Len())
}
