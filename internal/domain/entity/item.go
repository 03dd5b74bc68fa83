package entity

import "time"

// Item is an owned business resource. OwnerID is a plain foreign key to
// users.id; there is no live object graph between User and Item.
type Item struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
