package venueRepo

import (
	"context"
	"time"

	"livebooking/models"
	"livebooking/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// CachedVenueRepo serves venue lookups from Redis and falls back to the wrapped repository.
type CachedVenueRepo struct {
	next   VenueRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedVenueRepo(next VenueRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedVenueRepo {
	if ttl <= 0 {
		ttl = utils.DefaultVenueCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedVenueRepo{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedVenueRepo) GetByID(ctx context.Context, id string) (*models.HotelVilla, error) {
	key := utils.VenueCachePrefix + id
	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var venue models.HotelVilla
		if err := bson.Unmarshal(data, &venue); err == nil {
			return &venue, nil
		}
		c.logger.Warn("dropping undecodable venue cache entry", zap.String("hotelVillaId", id))
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("venue cache read failed", zap.String("hotelVillaId", id), zap.Error(err))
	}

	venue, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, venue)
	return venue, nil
}

func (c *CachedVenueRepo) Create(ctx context.Context, venue *models.HotelVilla) error {
	if err := c.next.Create(ctx, venue); err != nil {
		return err
	}
	c.store(ctx, utils.VenueCachePrefix+venue.ID, venue)
	return nil
}

// EnsureIndexes delegates to the wrapped repository when it manages indexes.
func (c *CachedVenueRepo) EnsureIndexes(ctx context.Context) error {
	if r, ok := c.next.(interface{ EnsureIndexes(context.Context) error }); ok {
		return r.EnsureIndexes(ctx)
	}
	return nil
}

func (c *CachedVenueRepo) store(ctx context.Context, key string, venue *models.HotelVilla) {
	b, err := bson.Marshal(venue)
	if err != nil {
		c.logger.Warn("failed to encode venue for cache", zap.String("hotelVillaId", venue.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warn("venue cache write failed", zap.String("hotelVillaId", venue.ID), zap.Error(err))
	}
}
