package model

import (
	"fmt"
	"time"
)

// Review rating bounds.
const (
	MinRating = 1
	MaxRating = 10
)

// Review defines a user review of a movie.
type Review struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movieId" validate:"required,gt=0"`
	UserID    int64     `json:"userId" validate:"required,gt=0"`
	Rating    int       `json:"rating" validate:"min=1,max=10"`
	Comment   *string   `json:"comment,omitempty" validate:"omitempty,max=512"`
	CreatedAt time.Time `json:"createdAt"`
	IsDeleted bool      `json:"-"`
}

func (r *Review) String() string {
	return fmt.Sprintf("Review{id=%d, movieId=%d, userId=%d, rating=%d}", r.ID, r.MovieID, r.UserID, r.Rating)
}

// ReviewView is the read projection of a review returned by listings.
type ReviewView struct {
	ID         int64     `json:"id"`
	MovieID    int64     `json:"movieId"`
	MovieTitle string    `json:"movieTitle"`
	UserID     int64     `json:"userId"`
	Username   string    `json:"username"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewEventType defines the type of a review event.
type ReviewEventType string

// Review event types.
const (
	ReviewEventTypePut    = ReviewEventType("put")
	ReviewEventTypeDelete = ReviewEventType("delete")
)

// ReviewEvent defines an event carrying a review change.
type ReviewEvent struct {
	Review
	ProviderID string          `json:"providerId"`
	EventType  ReviewEventType `json:"eventType"`
}

func (ev *ReviewEvent) String() string {
	return fmt.Sprintf("ReviewEvent{Review=%s, ProviderId=%s, EventType=%s}", ev.Review.String(), ev.ProviderID, ev.EventType)
}
