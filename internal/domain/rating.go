package domain

import "time"

// Rating is one participant's +1/-1 score for the other side of an order.
type Rating struct {
	ID          int64
	OrderID     int64
	RaterID     int64
	RatedUserID int64
	Score       int
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RatingSummary aggregates a user's received ratings.
type RatingSummary struct {
	Positive int
	Negative int
}

// Total returns the number of ratings received.
func (r RatingSummary) Total() int {
	return r.Positive + r.Negative
}

// Percent returns the positive share in whole percent. Users without ratings
// score 100.
func (r RatingSummary) Percent() int {
	if r.Total() == 0 {
		return 100
	}
	return r.Positive * 100 / r.Total()
}
