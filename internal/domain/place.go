package domain

// PlaceRecord is the best match returned by a place text search.
type PlaceRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"reviewCount,omitempty"`
}
