package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeRatings(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    RatingSummary
	}{
		{name: "no reviews", ratings: nil, want: RatingSummary{}},
		{name: "single", ratings: []int{4}, want: RatingSummary{AverageRating: 4, ReviewCount: 1}},
		{name: "rounds down", ratings: []int{5, 4, 4}, want: RatingSummary{AverageRating: 4.3, ReviewCount: 3}},
		{name: "rounds up", ratings: []int{5, 5, 4}, want: RatingSummary{AverageRating: 4.7, ReviewCount: 3}},
		{name: "half rounds away from zero", ratings: []int{5, 4, 4, 4, 5, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 5}, want: RatingSummary{AverageRating: 4.2, ReviewCount: 20}},
		{name: "exact half", ratings: []int{5, 4}, want: RatingSummary{AverageRating: 4.5, ReviewCount: 2}},
		{name: "all ones", ratings: []int{1, 1, 1}, want: RatingSummary{AverageRating: 1, ReviewCount: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummarizeRatings(tt.ratings))
		})
	}
}

func TestSummarizeRatingsRoundsHalfUp(t *testing.T) {
	// 1,1,2,2,2,2,2,2 averages to 1.75, which rounds to 1.8.
	got := SummarizeRatings([]int{1, 1, 2, 2, 2, 2, 2, 2})
	assert.Equal(t, 1.8, got.AverageRating)
	assert.Equal(t, 8, got.ReviewCount)
}

func TestDistributeRatings(t *testing.T) {
	t.Run("empty has every bucket", func(t *testing.T) {
		dist := DistributeRatings(nil)
		assert.Equal(t, RatingDistribution{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, dist)
	})

	t.Run("counts per star", func(t *testing.T) {
		dist := DistributeRatings([]int{5, 4, 5, 1, 5})
		assert.Equal(t, RatingDistribution{1: 1, 2: 0, 3: 0, 4: 1, 5: 3}, dist)
	})

	t.Run("ignores out of range", func(t *testing.T) {
		dist := DistributeRatings([]int{0, 6, -1, 3})
		assert.Equal(t, RatingDistribution{1: 0, 2: 0, 3: 1, 4: 0, 5: 0}, dist)
	})

	t.Run("sum equals review count", func(t *testing.T) {
		ratings := []int{1, 2, 3, 4, 5, 5, 4, 3}
		total := 0
		for _, n := range DistributeRatings(ratings) {
			total += n
		}
		assert.Equal(t, SummarizeRatings(ratings).ReviewCount, total)
	})
}
