package domain

import "time"

// DefaultMaxReviews caps how many substantial reviews are kept per place.
const DefaultMaxReviews = 50

type Review struct {
	Text   string     `json:"text"`
	Rating *int       `json:"rating,omitempty"` // 1..5
	Time   *time.Time `json:"time,omitempty"`
}

// ReviewBatch is the filtered, capped review list for one place.
// TotalFound == len(Reviews); LimitApplied == TotalAvailable > the cap used.
type ReviewBatch struct {
	Name           string   `json:"name"`
	Reviews        []Review `json:"reviews"`
	TotalFound     int      `json:"totalFound"`
	TotalAvailable int      `json:"totalAvailable"`
	LimitApplied   bool     `json:"limitApplied"`
}
