package domain

import "context"

// PlacesClient is the key-based, read-only review source.
type PlacesClient interface {
	GetReviews(ctx context.Context, placeID string) ([]Review, error)
}

// BusinessProfileClient is the credentialed backend, narrowed to the four
// operations the flow actually uses.
type BusinessProfileClient interface {
	ListAccounts(ctx context.Context) ([]string, error)
	ListLocations(ctx context.Context, account string) ([]Location, error)
	ListReviews(ctx context.Context, location string) ([]Review, error)
	// ReplyToReview writes a reply and returns the provider response verbatim.
	ReplyToReview(ctx context.Context, reviewName, comment string) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
