package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"review_replier/internal/domain"
)

// ConnectFunc builds an authenticated Business Profile client from the
// configured service-account credential.
type ConnectFunc func(ctx context.Context) (domain.BusinessProfileClient, error)

// Service runs the per-action flows against the two backends. It holds no
// review state itself; everything transient lives in the Session.
type Service struct {
	places   domain.PlacesClient // nil when no API key is configured
	connect  ConnectFunc         // nil when no credential is configured
	cache    domain.Cache        // nil disables the discovery cache
	cacheKey string              // per-credential discovery cache key
	cacheTTL time.Duration
	composer Composer
}

func NewService(places domain.PlacesClient, connect ConnectFunc, cache domain.Cache, cacheKey string, ttl time.Duration, composer Composer) *Service {
	return &Service{
		places:   places,
		connect:  connect,
		cache:    cache,
		cacheKey: cacheKey,
		cacheTTL: ttl,
		composer: composer,
	}
}

func (svc *Service) HasPlaces() bool   { return svc.places != nil }
func (svc *Service) HasBusiness() bool { return svc.connect != nil }

func (svc *Service) SetMode(s *Session, mode string) {
	if mode != ModePlaces && mode != ModeBusiness {
		mode = ModePlaces
	}
	s.mu.Lock()
	s.Mode = mode
	s.mu.Unlock()
}

// FetchPlaces runs the key-based fetch. On success the prior review list and
// drafts are overwritten; on failure the session keeps its previous state.
func (svc *Service) FetchPlaces(ctx context.Context, s *Session, placeID string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	if svc.places == nil {
		return domain.ErrNoAPIKey
	}
	placeID = strings.TrimSpace(placeID)
	revs, err := svc.places.GetReviews(ctx, placeID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.PlaceID = placeID
	svc.setReviews(s, revs)
	s.mu.Unlock()
	log.Info().Int("fetched", len(revs)).Str("place_id", placeID).Msg("places fetch ok")
	return nil
}

// Connect builds the authenticated client and discovers the account/location
// mapping. Nothing in the session changes unless the whole sequence succeeds.
func (svc *Service) Connect(ctx context.Context, s *Session) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	if svc.connect == nil {
		return domain.ErrNoCredential
	}
	client, err := svc.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	accounts, err := svc.discover(ctx, client)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Client = client
	s.Accounts = accounts
	s.Account = ""
	s.Location = ""
	s.Total = 0
	s.Drafts = nil
	s.Results = nil
	s.mu.Unlock()
	log.Info().Int("accounts", len(accounts)).Msg("business profile connected")
	return nil
}

// discover enumerates accounts then locations per account, consulting the
// short-TTL cache so repeated connects for the same credential skip the
// enumeration round-trips.
func (svc *Service) discover(ctx context.Context, client domain.BusinessProfileClient) ([]domain.Account, error) {
	key := "accounts:" + svc.cacheKey
	if svc.cache != nil {
		var cached []domain.Account
		if ok, _ := svc.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	names, err := client.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(names))
	for _, name := range names {
		locs, err := client.ListLocations(ctx, name)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, domain.Account{Name: name, Locations: locs})
	}

	if svc.cache != nil {
		_ = svc.cache.Set(ctx, key, accounts, int(svc.cacheTTL.Seconds()))
	}
	return accounts, nil
}

// FetchLocation lists reviews for one location of the connected account.
func (svc *Service) FetchLocation(ctx context.Context, s *Session, account, location string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	client := s.Client
	s.mu.Unlock()
	if client == nil {
		return domain.ErrNotConnected
	}

	revs, err := client.ListReviews(ctx, location)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Account = account
	s.Location = location
	svc.setReviews(s, revs)
	s.mu.Unlock()
	log.Info().Int("fetched", len(revs)).Str("location", location).Msg("location fetch ok")
	return nil
}

// setReviews overwrites the review list and re-drafts replies for the
// unanswered subset. Caller holds s.mu.
func (svc *Service) setReviews(s *Session, revs []domain.Review) {
	s.Total = len(revs)
	s.Results = nil
	s.Drafts = s.Drafts[:0]
	for _, r := range domain.Unanswered(revs) {
		text := svc.composer.Compose(FirstName(r.Author), ratingOrDefault(r.Rating), s.Extra)
		s.Drafts = append(s.Drafts, Draft{Review: r, Text: text, Composed: text, Post: true})
	}
}

// ratingOrDefault substitutes the middle-high bucket when a backend reported
// no rating, matching the drafting behavior for unknown star tokens.
func ratingOrDefault(r *int) int {
	if r == nil {
		return 4
	}
	return *r
}

// ApplyDrafts stores the user's per-review edits, post toggles and the global
// extra text. When the extra text changes, drafts the user left untouched are
// re-composed with it; hand-edited text always wins. Indexes outside the
// current draft list are ignored.
func (svc *Service) ApplyDrafts(s *Session, texts map[int]string, post map[int]bool, extra string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	extraChanged := extra != s.Extra
	s.Extra = extra
	for i := range s.Drafts {
		d := &s.Drafts[i]
		if t, ok := texts[i]; ok {
			d.Text = t
		}
		if extraChanged && d.Text == d.Composed {
			d.Text = svc.composer.Compose(FirstName(d.Review.Author), ratingOrDefault(d.Review.Rating), extra)
			d.Composed = d.Text
		}
		d.Post = post[i]
	}
}

// PostSelected submits the selected drafts one at a time, in order. Each
// outcome is posted, skipped or failed; a failure never stops the loop and a
// failed write is not retried.
func (svc *Service) PostSelected(ctx context.Context, s *Session) ([]domain.SubmitResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	s.mu.Lock()
	client := s.Client
	accounts := append([]domain.Account(nil), s.Accounts...)
	selected := make([]Draft, 0, len(s.Drafts))
	for _, d := range s.Drafts {
		if d.Post {
			selected = append(selected, d)
		}
	}
	s.mu.Unlock()

	if client == nil {
		return nil, domain.ErrNotConnected
	}

	results := make([]domain.SubmitResult, 0, len(selected))
	for _, d := range selected {
		results = append(results, svc.submitOne(ctx, client, accounts, d))
	}

	s.mu.Lock()
	s.Results = results
	s.mu.Unlock()
	return results, nil
}

func (svc *Service) submitOne(ctx context.Context, client domain.BusinessProfileClient, accounts []domain.Account, d Draft) domain.SubmitResult {
	rev := d.Review
	if rev.ID == "" {
		return domain.SubmitResult{Status: domain.SubmitSkipped, Reason: "no reviewId"}
	}

	name := rev.ResourceName
	if name == "" {
		if loc, ok := domain.SoleLocation(accounts); ok {
			name = loc.Name + "/reviews/" + rev.ID
		}
	}
	if name == "" {
		return domain.SubmitResult{
			Status:   domain.SubmitSkipped,
			ReviewID: rev.ID,
			Reason:   "cannot construct review resource name",
		}
	}

	resp, err := client.ReplyToReview(ctx, name, d.Text)
	if err != nil {
		log.Warn().Str("review", rev.ID).Err(err).Msg("reply post failed")
		return domain.SubmitResult{Status: domain.SubmitFailed, ReviewID: rev.ID, Error: err.Error()}
	}
	return domain.SubmitResult{Status: domain.SubmitPosted, ReviewID: rev.ID, Response: resp}
}
