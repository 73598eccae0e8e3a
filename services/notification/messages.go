package notification

import (
	"fmt"

	"livebooking/models"
)

// Audience is who a message is addressed to. Guests are reached through the hotel/villa front desk.
type Audience string

const (
	AudienceProvider Audience = "provider"
	AudienceHotel    Audience = "hotel"
	AudienceAdmin    Audience = "admin"
)

type Message struct {
	Audience Audience
	Title    string
	Body     string
}

// messagesFor renders the human readable messages an event produces, per audience.
func messagesFor(event models.NotificationEvent, b models.Booking) []Message {
	guest := fmt.Sprintf("%s (room %s)", b.GuestName, b.RoomNumber)

	switch event {
	case models.EventBookingCreated:
		return []Message{
			newRequestMessage(b),
			{AudienceHotel, "Booking request sent", fmt.Sprintf("Waiting for %s to confirm the booking for %s.", b.ProviderName, guest)},
		}
	case models.EventBookingConfirmed:
		return []Message{
			{AudienceHotel, "Booking confirmed ✅", fmt.Sprintf("%s confirmed the %d min session for %s.", b.ProviderName, b.ServiceDurationMin, guest)},
		}
	case models.EventProviderOnTheWay:
		return []Message{
			{AudienceHotel, "Provider on the way", fmt.Sprintf("%s is on the way to %s.", b.ProviderName, guest)},
		}
	case models.EventServiceStarted:
		return []Message{
			{AudienceHotel, "Service started", fmt.Sprintf("%s started the session for %s.", b.ProviderName, guest)},
		}
	case models.EventBookingTimedOut:
		return []Message{
			{AudienceProvider, "Booking request expired", fmt.Sprintf("The request for %s was passed to another provider.", guest)},
			{AudienceHotel, "No response from provider", fmt.Sprintf("%s did not respond in time. Looking for another provider.", b.ProviderName)},
		}
	case models.EventBookingDeclined:
		return []Message{
			{AudienceHotel, "Provider unavailable", fmt.Sprintf("%s declined. Looking for another provider.", b.ProviderName)},
		}
	case models.EventBookingReassigned:
		return []Message{
			newRequestMessage(b),
			{AudienceHotel, "Booking reassigned", fmt.Sprintf("The booking for %s was passed to %s.", guest, b.ProviderName)},
		}
	case models.EventNoProvidersAvailable:
		body := fmt.Sprintf("No providers are available near %s for %s. The booking was cancelled.", b.HotelVillaName, guest)
		return []Message{
			{AudienceHotel, "No providers available", body},
			{AudienceAdmin, "Live booking exhausted", fmt.Sprintf("Booking %s tried %d providers. %s", b.ID, len(b.FallbackProviderIDs), body)},
		}
	case models.EventBookingCompleted:
		return []Message{
			{AudienceHotel, "Service completed", fmt.Sprintf("%s completed the session for %s.", b.ProviderName, guest)},
		}
	case models.EventBookingCancelled:
		return []Message{
			{AudienceProvider, "Booking cancelled", fmt.Sprintf("The booking for %s was cancelled.", guest)},
			{AudienceHotel, "Booking cancelled", fmt.Sprintf("The booking for %s was cancelled: %s", guest, b.CancelReason)},
		}
	}
	return nil
}

func newRequestMessage(b models.Booking) Message {
	return Message{
		Audience: AudienceProvider,
		Title:    "New live booking 💆",
		Body: fmt.Sprintf("%s at %s, room %s: %d min at %s. Please respond by %s.",
			b.GuestName, b.HotelVillaName, b.RoomNumber, b.ServiceDurationMin,
			b.StartTime.Format("15:04"), b.ConfirmationDeadline.Format("15:04")),
	}
}
