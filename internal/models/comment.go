package models

import "time"

type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	ItemID    int64     `json:"item_id"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created"`

	// Filled by the store on reads.
	AuthorName string `json:"author_name"`
}
