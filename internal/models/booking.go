package models

import "time"

type Booking struct {
	ID        int64         `json:"id"`
	ItemID    int64         `json:"item_id"`
	BookerID  int64         `json:"booker_id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"-"`
}

// InProgressAt reports whether the booking covers the given instant.
func (b *Booking) InProgressAt(now time.Time) bool {
	return !b.Start.After(now) && b.End.After(now)
}
