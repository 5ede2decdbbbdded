package domain

// BookingState tracks a single booking attempt through checkout.
type BookingState string

const (
	BookingSelecting      BookingState = "SELECTING"
	BookingHolding        BookingState = "HOLDING"
	BookingPaymentPending BookingState = "PAYMENT_PENDING"
	BookingConfirmed      BookingState = "CONFIRMED"
	BookingAbandoned      BookingState = "ABANDONED"
	BookingExpired        BookingState = "EXPIRED"
)
