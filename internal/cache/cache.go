// Package cache keeps fare estimates in redis. Estimates are deterministic for a given
// set of features, so a cached value never goes stale while the same artifacts are served.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mmcloughlin/geohash"

	fare "github.com/cubny/taxifare"
)

const (
	keyPrefix = "fare:v2"
	// CellPrecision is the geohash precision reported to clients, roughly a city block
	CellPrecision = 7
)

// ErrMiss is returned by Get when no estimate is cached for the trip
var ErrMiss = errors.New("cache miss")

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// EstimateCache stores fares by trip
type EstimateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis and checks the connection
func New(ctx context.Context, config Config) (*EstimateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}
	return NewWithClient(client, config.TTL), nil
}

// NewWithClient wraps an existing redis client
func NewWithClient(client *redis.Client, ttl time.Duration) *EstimateCache {
	return &EstimateCache{
		client: client,
		ttl:    ttl,
	}
}

// Key returns the cache key of the trip: the exact coordinates of both ends and the
// categorical inputs the features are derived from. Geohash cells are not used here
// since they fold latitudes at and beyond the poles into the same cell.
func Key(trip fare.Trip) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d:%d:%d",
		keyPrefix,
		keyPoint(trip.Pickup),
		keyPoint(trip.Dropoff),
		trip.Passengers,
		fare.Weekday(trip.PickupAt),
		trip.PickupAt.Hour(),
		int(trip.Payment),
	)
}

func keyPoint(p fare.Point) string {
	return strconv.FormatFloat(p.Lat, 'g', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'g', -1, 64)
}

// Cell returns the geohash cell of a point at CellPrecision
func Cell(p fare.Point) string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lon, CellPrecision)
}

// Get returns the cached fare of the trip or ErrMiss
func (c *EstimateCache) Get(ctx context.Context, trip fare.Trip) (fare.Price, error) {
	raw, err := c.client.Get(ctx, Key(trip)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, ErrMiss
	case err != nil:
		return 0, fmt.Errorf("get estimate: %w", err)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("decode estimate %q: %w", raw, err)
	}
	return fare.Price(v), nil
}

// Set stores the fare of the trip for the configured TTL
func (c *EstimateCache) Set(ctx context.Context, trip fare.Trip, price fare.Price) error {
	value := strconv.FormatFloat(float64(price), 'g', -1, 64)
	if err := c.client.Set(ctx, Key(trip), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("set estimate: %w", err)
	}
	return nil
}

// Ping checks the redis connection
func (c *EstimateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *EstimateCache) Close() error {
	return c.client.Close()
}
