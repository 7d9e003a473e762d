// Package queue defines message payloads exchanged over the message broker.
package queue

// ReviewCreatedEvent is published when a review is successfully appended
// to a movie.  It contains enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type ReviewCreatedEvent struct {
    ReviewID   uint64  `json:"review_id"`
    MovieID    uint64  `json:"movie_id"`
    MovieTitle string  `json:"movie_title"`
    UserID     uint64  `json:"user_id"`
    Username   string  `json:"username"`
    Rating     float64 `json:"rating"`
    CreatedAt  string  `json:"created_at"`
}
