// Package gbp is the credentialed Google Business Profile (My Business v4)
// adapter: account/location discovery, review listing, and the reply write.
package gbp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2/google"

	"review_replier/internal/adapters/googleapi"
	"review_replier/internal/domain"
)

const (
	DefaultBase = "https://mybusiness.googleapis.com/v4"

	// Scope is the single scope required to read and reply to reviews.
	Scope = "https://www.googleapis.com/auth/business.manage"
)

type Client struct {
	base   string
	caller *googleapi.Caller
}

// Connect builds an authenticated client from the decoded service-account
// JSON. Any failure here aborts the connect action; the caller must not
// mutate prior session state.
func Connect(ctx context.Context, saJSON []byte, base string, rps int) (*Client, error) {
	cfg, err := google.JWTConfigFromJSON(saJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("service account config: %w", err)
	}
	hc := cfg.Client(ctx)
	hc.Timeout = 20 * time.Second
	c := New(base, rps)
	c.caller.HC = hc
	return c, nil
}

// New builds a client without credentials; Connect attaches the authenticated
// transport, tests point base at an httptest server.
func New(base string, rps int) *Client {
	if base == "" {
		base = DefaultBase
	}
	return &Client{base: base, caller: googleapi.New("business_profile", rps)}
}

func (c *Client) ListAccounts(ctx context.Context) ([]string, error) {
	var out struct {
		Accounts []struct {
			Name string `json:"name"`
		} `json:"accounts"`
	}
	if err := c.caller.GetJSON(ctx, "accounts_list", c.base+"/accounts", &out); err != nil {
		return nil, wrapFetch("list accounts", err)
	}
	names := make([]string, 0, len(out.Accounts))
	for _, a := range out.Accounts {
		names = append(names, a.Name)
	}
	return names, nil
}

func (c *Client) ListLocations(ctx context.Context, account string) ([]domain.Location, error) {
	var out struct {
		Locations []struct {
			Name      string `json:"name"`
			StoreCode string `json:"storeCode"`
		} `json:"locations"`
	}
	u := fmt.Sprintf("%s/%s/locations", c.base, account)
	if err := c.caller.GetJSON(ctx, "locations_list", u, &out); err != nil {
		return nil, wrapFetch("list locations", err)
	}
	locs := make([]domain.Location, 0, len(out.Locations))
	for _, l := range out.Locations {
		locs = append(locs, domain.Location{Name: l.Name, StoreCode: l.StoreCode})
	}
	return locs, nil
}

type apiReview struct {
	ReviewID string `json:"reviewId"`
	Name     string `json:"name"`
	Reviewer struct {
		DisplayName string `json:"displayName"`
	} `json:"reviewer"`
	StarRating  string `json:"starRating"`
	Comment     string `json:"comment"`
	CreateTime  string `json:"createTime"`
	ReviewReply *struct {
		Comment string `json:"comment"`
	} `json:"reviewReply"`
}

func (c *Client) ListReviews(ctx context.Context, location string) ([]domain.Review, error) {
	var out struct {
		Reviews []apiReview `json:"reviews"`
	}
	u := fmt.Sprintf("%s/%s/reviews", c.base, location)
	if err := c.caller.GetJSON(ctx, "reviews_list", u, &out); err != nil {
		return nil, wrapFetch("list reviews", err)
	}

	revs := make([]domain.Review, 0, len(out.Reviews))
	for _, r := range out.Reviews {
		rev := domain.Review{
			ID:           r.ReviewID,
			ResourceName: r.Name,
			Author:       r.Reviewer.DisplayName,
			Rating:       domain.StarRating(r.StarRating),
			Text:         r.Comment,
			CreateTime:   r.CreateTime,
		}
		if r.ReviewReply != nil {
			reply := r.ReviewReply.Comment
			rev.Reply = &reply
		}
		revs = append(revs, rev)
	}
	return revs, nil
}

// ReplyToReview writes the reply in a single attempt and returns the provider
// response verbatim. Write failures are never retried.
func (c *Client) ReplyToReview(ctx context.Context, reviewName, comment string) (map[string]any, error) {
	body, err := json.Marshal(map[string]string{"comment": comment})
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/%s/reply", c.base, reviewName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var resp map[string]any
	if err := c.caller.DoOnce(ctx, "review_reply", req, &resp); err != nil {
		return nil, fmt.Errorf("post reply: %w", err)
	}
	return resp, nil
}

func wrapFetch(op string, err error) error {
	var se *googleapi.StatusError
	if errors.As(err, &se) {
		return &domain.FetchError{
			Provider: "business_profile",
			Status:   fmt.Sprintf("HTTP %d", se.Code),
			Message:  fmt.Sprintf("%s: %s", op, se.Body),
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
