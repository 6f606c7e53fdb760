package logging

// Common log field names.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldType      = "type"
	FieldPort      = "port"
	FieldSignal    = "signal"
	FieldJob       = "job"
	FieldMovieID   = "movie_id"
	FieldReviewID  = "review_id"
	FieldKey       = "key"
)
