package model

import "time"

// MovieStat defines denormalized statistics of a single movie.
// It is keyed by the movie id.
type MovieStat struct {
	MovieID         int64     `json:"movieId"`
	AverageRating   float64   `json:"averageRating"`
	ReviewCount     int       `json:"reviewCount"`
	MovieWasDeleted bool      `json:"movieWasDeleted"`
	LastChangedAt   time.Time `json:"lastChangedAt"`
}

// StatValues defines the values of a MovieStat computed from live data.
type StatValues struct {
	AverageRating float64
	ReviewCount   int
	IsDeleted     bool
}

// ComputeStat computes the statistics values of a movie with its reviews loaded.
func ComputeStat(m *Movie) StatValues {
	return StatValues{
		AverageRating: m.AverageRating(),
		ReviewCount:   len(m.Reviews),
		IsDeleted:     m.IsDeleted,
	}
}

// Differs reports whether any stored value differs from v.
func (s *MovieStat) Differs(v StatValues) bool {
	return s.AverageRating != v.AverageRating ||
		s.ReviewCount != v.ReviewCount ||
		s.MovieWasDeleted != v.IsDeleted
}

// Apply overwrites the stored values with v and stamps the change time.
func (s *MovieStat) Apply(v StatValues, now time.Time) {
	s.AverageRating = v.AverageRating
	s.ReviewCount = v.ReviewCount
	s.MovieWasDeleted = v.IsDeleted
	s.LastChangedAt = now
}
