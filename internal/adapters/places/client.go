// Package places implements the key-based, read-only review fetcher over the
// Places Details endpoint. This backend never exposes reply status, so every
// review it returns is treated as unanswered.
package places

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"review_replier/internal/adapters/googleapi"
	"review_replier/internal/domain"
)

const DefaultBase = "https://maps.googleapis.com"

type Client struct {
	base   string
	key    string
	caller *googleapi.Caller
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, errors.New("API key is required")
	}
	if base == "" {
		base = DefaultBase
	}
	return &Client{base: base, key: key, caller: googleapi.New("places", rps)}, nil
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name    string  `json:"name"`
		Rating  float64 `json:"rating"`
		Reviews []struct {
			AuthorName string `json:"author_name"`
			AuthorURL  string `json:"author_url"`
			Rating     int    `json:"rating"`
			Text       string `json:"text"`
			Time       int64  `json:"time"`
		} `json:"reviews"`
	} `json:"result"`
}

// GetReviews issues a single details request for the place and normalizes the
// returned reviews. The endpoint caps the result set itself; there is no
// pagination.
func (c *Client) GetReviews(ctx context.Context, placeID string) ([]domain.Review, error) {
	q := url.Values{
		"place_id": {placeID},
		"fields":   {"name,rating,reviews"},
		"key":      {c.key},
	}
	u := c.base + "/maps/api/place/details/json?" + q.Encode()

	var out detailsResponse
	if err := c.caller.GetJSON(ctx, "place_details", u, &out); err != nil {
		var se *googleapi.StatusError
		if errors.As(err, &se) {
			return nil, &domain.FetchError{
				Provider: "places",
				Status:   fmt.Sprintf("HTTP %d", se.Code),
				Message:  se.Body,
			}
		}
		return nil, err
	}
	if out.Status != "OK" {
		return nil, &domain.FetchError{Provider: "places", Status: out.Status, Message: out.ErrorMessage}
	}

	revs := make([]domain.Review, 0, len(out.Result.Reviews))
	for _, r := range out.Result.Reviews {
		rev := domain.Review{
			ID:     r.AuthorURL, // the endpoint has no review id; the author URL stands in
			Author: r.AuthorName,
			Text:   r.Text,
		}
		if r.Rating > 0 {
			rating := r.Rating
			rev.Rating = &rating
		}
		if r.Time > 0 {
			ts := r.Time
			rev.Time = &ts
		}
		revs = append(revs, rev)
	}
	return revs, nil
}
