package models

import "time"

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint builds a GeoJSON point from latitude and longitude.
func NewGeoPoint(lat, lon float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

// Valid reports whether the point carries a longitude and a latitude.
func (g GeoPoint) Valid() bool {
	return len(g.Coordinates) == 2
}

// HotelVilla is the venue a live booking is requested from.
type HotelVilla struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	VenueType    string    `bson:"venueType" json:"venueType"` // "hotel" or "villa"
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	ContactPhone string    `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	LocationGeo  GeoPoint  `bson:"locationGeo" json:"locationGeo"`
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
