package model

// Genre represents a row in the `genres` table.  It maps a numeric ID to
// a unique genre name.  Movies reference this table via their GenreID
// field rather than copying the name.
type Genre struct {
    ID   uint64 `json:"id"`   // genres.id
    Name string `json:"name"` // genres.name
}
