package model

import "time"

// Movie represents a catalog entry as stored in the `movies` table.
// Rating and NumReviews are aggregates derived from the reviews table;
// they are recomputed from scratch on every review mutation and must
// never be incremented in place.
//
// Fields:
//  ID         – primary key identifier.
//  Title      – movie title.
//  GenreID    – foreign key into the genres table.
//  Year       – release year.
//  Cast       – list of cast member names (stored as a JSON column).
//  Rating     – mean of all review ratings, 0 when unreviewed.
//  NumReviews – number of reviews on the movie.
//  Image      – relative path of the uploaded poster image.
//  Detail     – free-form description text.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Movie struct {
    ID         uint64    // movies.id
    Title      string    // movies.title
    GenreID    uint64    // movies.genre_id
    Year       int       // movies.year
    Cast       []string  // movies.cast_list (JSON)
    Rating     float64   // movies.rating (derived)
    NumReviews uint32    // movies.num_reviews (derived)
    Image      string    // movies.image
    Detail     string    // movies.detail
    CreatedAt  time.Time // movies.created_at
    UpdatedAt  time.Time // movies.updated_at
}

// Review models a row in the `reviews` table.  A user may leave at most
// one review per movie; the handler enforces that rule before inserting.
//
// Fields:
//  ID        – primary key identifier.
//  MovieID   – movie the review belongs to.
//  UserID    – author of the review.
//  Name      – author's username at review time.
//  Rating    – numeric rating contributed to the movie aggregate.
//  Comment   – free-form review text.
//  CreatedAt – timestamp of creation.
type Review struct {
    ID        uint64    // reviews.id
    MovieID   uint64    // reviews.movie_id
    UserID    uint64    // reviews.user_id
    Name      string    // reviews.name
    Rating    float64   // reviews.rating
    Comment   string    // reviews.comment
    CreatedAt time.Time // reviews.created_at
}
