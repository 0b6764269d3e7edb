package data

import "math"

const (
	MinRating = 1
	MaxRating = 5
)

// RatingSummary holds the derived average rating and review count of a book.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// RatingDistribution maps each star value from 1 to 5 to the number of
// reviews carrying it.
type RatingDistribution map[int]int

// SummarizeRatings averages ratings to one decimal place. Halves round away
// from zero. No ratings yields a zero summary.
func SummarizeRatings(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating
	}
	avg := float64(sum) / float64(len(ratings))
	return RatingSummary{
		AverageRating: math.Round(avg*10) / 10,
		ReviewCount:   len(ratings),
	}
}

// DistributeRatings counts ratings per star value. All five buckets are
// present even when empty and values outside 1..5 are ignored.
func DistributeRatings(ratings []int) RatingDistribution {
	dist := make(RatingDistribution, MaxRating)
	for star := MinRating; star <= MaxRating; star++ {
		dist[star] = 0
	}
	for _, rating := range ratings {
		if rating < MinRating || rating > MaxRating {
			continue
		}
		dist[rating]++
	}
	return dist
}
