package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"livebooking/config"
	"livebooking/database"
	providerRepo "livebooking/database/repository/provider"
	venueRepo "livebooking/database/repository/venue"
	"livebooking/models"

	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	config.LoadConfig()
	database.InitDB()
	defer database.Disconnect(context.Background())
	db := database.Database()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Clear existing seed data.
	for _, name := range []string{"providers", "hotelVillas"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", name, err)
		}
	}

	providers := providerRepo.NewMongoProviderRepo(db)
	venues := venueRepo.NewMongoVenueRepo(db)
	if err := providers.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create provider indexes: %v", err)
	}

	// Fixed venue point for simulation (Seminyak, Bali).
	venueLon, venueLat := 115.1616, -8.6913

	venue := &models.HotelVilla{
		ID:          "villa-1",
		Name:        "Sample Villa",
		VenueType:   "villa",
		Address:     "Jl. Sample 1, Seminyak",
		LocationGeo: models.NewGeoPoint(venueLat, venueLon),
	}
	if err := venues.Create(ctx, venue); err != nil {
		log.Fatalf("Failed to insert hotel/villa: %v", err)
	}

	providerTypes := []models.ProviderType{models.ProviderTypeTherapist, models.ProviderTypePlace}
	providersPerType := 10
	total := len(providerTypes) * providersPerType

	// Distances are spread linearly from 0.5 km to 15 km so some fall outside the default radius.
	maxDistance := 15.0
	minDistance := 0.5
	spacing := (maxDistance - minDistance) / float64(total-1)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	counter := 1
	for _, pt := range providerTypes {
		for i := 1; i <= providersPerType; i++ {
			distanceKm := minDistance + spacing*float64(counter-1)
			angle := rng.Float64() * 2 * math.Pi

			// 1 km is roughly 0.009 degrees of latitude; longitude scales with cos(lat).
			deltaLat := distanceKm * 0.009 * math.Sin(angle)
			deltaLon := distanceKm * 0.009 / math.Cos(venueLat*math.Pi/180) * math.Cos(angle)

			availability := models.AvailabilityAvailable
			if i%5 == 0 {
				availability = models.AvailabilityOffline
			}

			p := &models.Provider{
				ID:                      fmt.Sprintf("prov-%d", counter),
				Name:                    fmt.Sprintf("%s %d", pt, counter),
				ProviderType:            pt,
				AvailabilityStatus:      availability,
				HotelVillaServiceStatus: models.HotelServiceActive,
				PhoneNumber:             fmt.Sprintf("+62800000%04d", counter),
				Rating:                  3.5 + rng.Float64()*1.5,
				LocationGeo:             models.NewGeoPoint(venueLat+deltaLat, venueLon+deltaLon),
			}
			if err := providers.Create(ctx, p); err != nil {
				log.Fatalf("Failed to insert provider %s: %v", p.ID, err)
			}
			counter++
		}
	}

	fmt.Printf("Seeded 1 hotel/villa and %d providers\n", total)
}
