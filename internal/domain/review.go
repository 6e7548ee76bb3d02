package domain

import (
	"time"
)

// Review represents a product review submitted by a user. A user holds at
// most one review per product; resubmitting replaces rating and comment.
type Review struct {
	ID        string    `json:"_id"`
	ProductID string    `json:"-"`
	UserID    string    `json:"user"`
	UserName  string    `json:"name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewAggregate contains the derived rating statistics for a product.
type ReviewAggregate struct {
	Ratings      float64
	NumOfReviews int
}

// Aggregate computes the rating statistics over a review set. An empty
// set yields a zero average, not NaN.
func Aggregate(reviews []Review) ReviewAggregate {
	if len(reviews) == 0 {
		return ReviewAggregate{Ratings: 0, NumOfReviews: 0}
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return ReviewAggregate{
		Ratings:      sum / float64(len(reviews)),
		NumOfReviews: len(reviews),
	}
}
