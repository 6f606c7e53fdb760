package model

import "time"

// Movie defines a catalog movie.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title" validate:"required,max=64"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=512"`
	Genre       *string `json:"genre,omitempty" validate:"omitempty,max=64"`
	Director    *string `json:"director,omitempty" validate:"omitempty,max=64"`
	ReleaseDate *Date   `json:"releaseDate,omitempty"`
	IsDeleted   bool    `json:"-"`

	// Reviews is populated only by queries that load them eagerly.
	Reviews []Review `json:"-"`
}

// AverageRating returns the arithmetic mean of the movie reviews
// ratings, or 0 when the movie has no reviews.
func (m *Movie) AverageRating() float64 {
	if len(m.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range m.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(m.Reviews))
}

// LastReviewAt returns the creation time of the most recent review.
func (m *Movie) LastReviewAt() (time.Time, bool) {
	var last time.Time
	for _, r := range m.Reviews {
		if r.CreatedAt.After(last) {
			last = r.CreatedAt
		}
	}
	return last, len(m.Reviews) > 0
}
