package booking

import "github.com/peershare/service-rental/internal/domain"

// AuthorizeApproval allows only the owner of the booked item to change the
// booking status.
func AuthorizeApproval(b *Booking, callerID int64) error {
	if !b.IsOwnedBy(callerID) {
		return domain.NewAccessDeniedError("only the item owner may change booking status")
	}
	return nil
}

// AuthorizeView allows the item owner and the booker to read the booking.
func AuthorizeView(b *Booking, callerID int64) error {
	if !b.IsOwnedBy(callerID) && !b.IsBookedBy(callerID) {
		return domain.NewAccessDeniedError("only the owner or the requester may view this booking")
	}
	return nil
}
