package booking

// IsBooker reports whether the user created the booking.
func IsBooker(userID string, b *Booking) bool {
	return b.BookerID == userID
}

// IsOwner reports whether the user owns the booked item.
func IsOwner(userID string, b *Booking) bool {
	return b.ItemOwnerID == userID
}

// CanView reports whether the user may see the booking: the booker and the
// item's owner, nobody else.
func CanView(userID string, b *Booking) bool {
	return IsBooker(userID, b) || IsOwner(userID, b)
}
