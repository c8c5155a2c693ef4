package models

import "time"

// UserSummary and ItemSummary are the embedded shapes exposed inside a
// booking response.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingDetail is the public representation of a booking.
type BookingDetail struct {
	ID     int64         `json:"id"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Status BookingStatus `json:"status"`
	Booker UserSummary   `json:"booker"`
	Item   ItemSummary   `json:"item"`
}

// BookingRef identifies the nearest past/future booking on an item view.
type BookingRef struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// CommentDetail exposes a comment with its author's display name.
type CommentDetail struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDetail is the assembled public view of an item.
type ItemDetail struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Available   bool            `json:"available"`
	LastBooking *BookingRef     `json:"lastBooking"`
	NextBooking *BookingRef     `json:"nextBooking"`
	Comments    []CommentDetail `json:"comments"`
}
