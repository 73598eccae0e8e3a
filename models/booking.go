package models

import "time"

// BookingStatus is the overall lifecycle state of a live booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusOnTheWay   BookingStatus = "on_the_way"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusTimedOut   BookingStatus = "timed_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// ProviderResponseStatus tracks the assigned provider's reply, independent of the booking status.
type ProviderResponseStatus string

const (
	ResponseAwaiting  ProviderResponseStatus = "awaiting_response"
	ResponseConfirmed ProviderResponseStatus = "confirmed"
	ResponseDeclined  ProviderResponseStatus = "declined"
	ResponseTimedOut  ProviderResponseStatus = "timed_out"
)

// Cancellation actors.
const (
	CancelledBySystem = "system"
	CancelledByHotel  = "hotel"
	CancelledByGuest  = "guest"
	CancelledByAdmin  = "admin"
)

// Booking is a hotel/villa live booking and the source of truth for the orchestrator.
type Booking struct {
	ID                 string `bson:"id" json:"id"`
	HotelVillaID       string `bson:"hotelVillaId" json:"hotelVillaId"`
	HotelVillaName     string `bson:"hotelVillaName" json:"hotelVillaName"`
	GuestName          string `bson:"guestName" json:"guestName"`
	RoomNumber         string `bson:"roomNumber" json:"roomNumber"`
	GuestLanguage      string `bson:"guestLanguage,omitempty" json:"guestLanguage,omitempty"`
	ChargeToRoom       bool   `bson:"chargeToRoom" json:"chargeToRoom"`
	ServiceDurationMin int    `bson:"serviceDurationMin" json:"serviceDurationMin"`

	StartTime time.Time `bson:"startTime" json:"startTime"`

	ProviderID   string       `bson:"providerId" json:"providerId"`
	ProviderName string       `bson:"providerName" json:"providerName"`
	ProviderType ProviderType `bson:"providerType" json:"providerType"`

	Status                 BookingStatus          `bson:"status" json:"status"`
	ProviderResponseStatus ProviderResponseStatus `bson:"providerResponseStatus" json:"providerResponseStatus"`
	ConfirmationDeadline   time.Time              `bson:"confirmationDeadline" json:"confirmationDeadline"`
	FallbackProviderIDs    []string               `bson:"fallbackProviderIds" json:"fallbackProviderIds"`
	IsReassigned           bool                   `bson:"isReassigned" json:"isReassigned"`
	ServiceRadiusKm        float64                `bson:"serviceRadiusKm" json:"serviceRadiusKm"`

	RequestedAt  time.Time  `bson:"requestedAt" json:"requestedAt"`
	ConfirmedAt  *time.Time `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CompletedAt  *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt  *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancelReason string     `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CancelledBy  string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`

	// Version is bumped on every write and used as the expected-version precondition.
	Version   int64     `bson:"version" json:"version"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasTried reports whether providerID was already assigned to this booking at some point.
func (b *Booking) HasTried(providerID string) bool {
	for _, id := range b.FallbackProviderIDs {
		if id == providerID {
			return true
		}
	}
	return false
}

// BookingPatch lists the fields a transition changes. Nil fields are left untouched.
type BookingPatch struct {
	Status                 *BookingStatus
	ProviderResponseStatus *ProviderResponseStatus
	ProviderID             *string
	ProviderName           *string
	ConfirmationDeadline   *time.Time
	FallbackProviderIDs    []string
	IsReassigned           *bool
	ConfirmedAt            *time.Time
}

// Apply copies the non-nil fields of p onto b.
func (b *Booking) Apply(p BookingPatch) {
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.ProviderResponseStatus != nil {
		b.ProviderResponseStatus = *p.ProviderResponseStatus
	}
	if p.ProviderID != nil {
		b.ProviderID = *p.ProviderID
	}
	if p.ProviderName != nil {
		b.ProviderName = *p.ProviderName
	}
	if p.ConfirmationDeadline != nil {
		b.ConfirmationDeadline = *p.ConfirmationDeadline
	}
	if p.FallbackProviderIDs != nil {
		b.FallbackProviderIDs = append([]string(nil), p.FallbackProviderIDs...)
	}
	if p.IsReassigned != nil {
		b.IsReassigned = *p.IsReassigned
	}
	if p.ConfirmedAt != nil {
		at := *p.ConfirmedAt
		b.ConfirmedAt = &at
	}
}

// BookingRequest is the payload a hotel/villa front desk submits for a guest.
type BookingRequest struct {
	HotelVillaID       string       `json:"hotelVillaId" validate:"required"`
	HotelVillaName     string       `json:"hotelVillaName"`
	GuestName          string       `json:"guestName" validate:"required,max=120"`
	RoomNumber         string       `json:"roomNumber" validate:"required,max=20"`
	GuestLanguage      string       `json:"guestLanguage" validate:"omitempty,len=2"`
	ChargeToRoom       bool         `json:"chargeToRoom"`
	ServiceDurationMin int          `json:"serviceDurationMin" validate:"required,oneof=60 90 120"`
	StartTime          time.Time    `json:"startTime" validate:"required"`
	ProviderID         string       `json:"providerId" validate:"required"`
	ProviderName       string       `json:"providerName" validate:"required"`
	ProviderType       ProviderType `json:"providerType" validate:"required,oneof=therapist place"`
	ServiceRadiusKm    float64      `json:"serviceRadiusKm" validate:"omitempty,gt=0,lte=50"`
}
