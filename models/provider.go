package models

import "time"

// ProviderType distinguishes individual therapists from massage places.
type ProviderType string

const (
	ProviderTypeTherapist ProviderType = "therapist"
	ProviderTypePlace     ProviderType = "place"
)

// Valid reports whether t is a known provider type.
func (t ProviderType) Valid() bool {
	return t == ProviderTypeTherapist || t == ProviderTypePlace
}

// AvailabilityStatus is the provider's current capacity to take a booking.
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "available"
	AvailabilityBusy      AvailabilityStatus = "busy"
	AvailabilityOffline   AvailabilityStatus = "offline"
)

// Hotel/villa service flag values.
const (
	HotelServiceActive   = "active"
	HotelServiceInactive = "inactive"
)

type Provider struct {
	ID                      string             `bson:"id" json:"id"`
	Name                    string             `bson:"name" json:"name"`
	ProviderType            ProviderType       `bson:"providerType" json:"providerType"`
	AvailabilityStatus      AvailabilityStatus `bson:"availabilityStatus" json:"availabilityStatus"`
	HotelVillaServiceStatus string             `bson:"hotelVillaServiceStatus" json:"hotelVillaServiceStatus"`
	PhoneNumber             string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Rating                  float64            `bson:"rating" json:"rating"`
	LocationGeo             GeoPoint           `bson:"locationGeo" json:"locationGeo"`
	FCMToken                string             `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt               time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Distance is filled by the geo search, in metres from the venue.
	Distance float64 `bson:"distance,omitempty" json:"distance,omitempty"`
}
