package models

// NotificationEvent names a booking lifecycle event pushed to the parties involved.
type NotificationEvent string

const (
	EventBookingCreated       NotificationEvent = "booking_created"
	EventBookingConfirmed     NotificationEvent = "booking_confirmed"
	EventProviderOnTheWay     NotificationEvent = "provider_on_the_way"
	EventServiceStarted       NotificationEvent = "service_started"
	EventBookingTimedOut      NotificationEvent = "booking_timed_out"
	EventBookingDeclined      NotificationEvent = "booking_declined"
	EventBookingReassigned    NotificationEvent = "booking_reassigned"
	EventNoProvidersAvailable NotificationEvent = "no_providers_available"
	EventBookingCompleted     NotificationEvent = "booking_completed"
	EventBookingCancelled     NotificationEvent = "booking_cancelled"
)

// NotificationPayload is the queued form of a notification, processed by the worker.
type NotificationPayload struct {
	Event   NotificationEvent `json:"event"`
	Booking Booking           `json:"booking"`
}

// DeadlinePayload is the queued form of a confirmation deadline.
type DeadlinePayload struct {
	BookingID string `json:"bookingId"`
	Deadline  int64  `json:"deadline"` // unix milliseconds
}
