package providerRepo

import (
	"context"
	"errors"

	"livebooking/models"
)

// ErrNotFound is returned when no provider has the requested id.
var ErrNotFound = errors.New("provider not found")

// AlternativeSearchCriteria describes a radius search for a replacement provider.
type AlternativeSearchCriteria struct {
	ProviderType  models.ProviderType
	Near          models.GeoPoint
	MaxDistanceKm float64
	ExcludeIDs    []string
	Limit         int64
}

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// Create inserts a new provider record.
	Create(ctx context.Context, provider *models.Provider) error
	// SetAvailability updates the provider's availability status.
	SetAvailability(ctx context.Context, id string, status models.AvailabilityStatus) error
	// FindAlternatives returns available providers near a point, nearest first.
	FindAlternatives(ctx context.Context, criteria AlternativeSearchCriteria) ([]models.Provider, error)
	// EnsureIndexes creates the geo and lookup indexes.
	EnsureIndexes(ctx context.Context) error
}
