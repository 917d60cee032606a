package gbp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"review_replier/internal/adapters/gbp"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, mux
}

func TestListAccountsAndLocations(t *testing.T) {
	ts, mux := newTestServer(t)
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"accounts": []map[string]any{{"name": "accounts/1"}, {"name": "accounts/2"}},
		})
	})
	mux.HandleFunc("/accounts/1/locations", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"locations": []map[string]any{{"name": "accounts/1/locations/9", "storeCode": "HQ"}},
		})
	})

	cl := gbp.New(ts.URL, 100)
	names, err := cl.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(names) != 2 || names[0] != "accounts/1" {
		t.Fatalf("unexpected accounts: %v", names)
	}

	locs, err := cl.ListLocations(context.Background(), "accounts/1")
	if err != nil {
		t.Fatalf("list locations: %v", err)
	}
	if len(locs) != 1 || locs[0].Name != "accounts/1/locations/9" || locs[0].StoreCode != "HQ" {
		t.Fatalf("unexpected locations: %+v", locs)
	}
}

func TestListReviews_MapsStarsAndReply(t *testing.T) {
	ts, mux := newTestServer(t)
	mux.HandleFunc("/accounts/1/locations/9/reviews", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"reviews": []map[string]any{
				{
					"reviewId":   "r1",
					"name":       "accounts/1/locations/9/reviews/r1",
					"reviewer":   map[string]any{"displayName": "Dana Fox"},
					"starRating": "TWO",
					"comment":    "meh",
					"createTime": "2026-08-01T10:00:00Z",
				},
				{
					"reviewId":    "r2",
					"name":        "accounts/1/locations/9/reviews/r2",
					"reviewer":    map[string]any{"displayName": "Eli Ng"},
					"starRating":  "FIVE",
					"comment":     "wow",
					"reviewReply": map[string]any{"comment": "Thanks!"},
				},
				{
					"reviewId":   "r3",
					"starRating": "STAR_RATING_UNSPECIFIED",
				},
			},
		})
	})

	cl := gbp.New(ts.URL, 100)
	revs, err := cl.ListReviews(context.Background(), "accounts/1/locations/9")
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(revs) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(revs))
	}

	if revs[0].Rating == nil || *revs[0].Rating != 2 || revs[0].Answered() {
		t.Fatalf("first review mapping wrong: %+v", revs[0])
	}
	if revs[0].Author != "Dana Fox" || revs[0].ResourceName != "accounts/1/locations/9/reviews/r1" {
		t.Fatalf("first review mapping wrong: %+v", revs[0])
	}
	if !revs[1].Answered() || *revs[1].Reply != "Thanks!" {
		t.Fatalf("existing reply not mapped: %+v", revs[1])
	}
	if revs[2].Rating != nil {
		t.Fatalf("unknown star token must map to absent rating: %+v", revs[2])
	}
}

func TestReplyToReview_PutsComment(t *testing.T) {
	ts, mux := newTestServer(t)
	var gotMethod, gotBody atomic.Value
	mux.HandleFunc("/accounts/1/locations/9/reviews/r1/reply", func(w http.ResponseWriter, r *http.Request) {
		gotMethod.Store(r.Method)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotBody.Store(body["comment"])
		_ = json.NewEncoder(w).Encode(map[string]any{"comment": body["comment"], "updateTime": "2026-08-30T00:00:00Z"})
	})

	cl := gbp.New(ts.URL, 100)
	resp, err := cl.ReplyToReview(context.Background(), "accounts/1/locations/9/reviews/r1", "Thank you!")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if gotMethod.Load() != http.MethodPut {
		t.Fatalf("expected PUT, got %v", gotMethod.Load())
	}
	if gotBody.Load() != "Thank you!" {
		t.Fatalf("comment payload wrong: %v", gotBody.Load())
	}
	if resp["updateTime"] == "" {
		t.Fatalf("provider response not returned verbatim: %v", resp)
	}
}

func TestReplyToReview_SingleAttemptOnFailure(t *testing.T) {
	ts, mux := newTestServer(t)
	var hits int32
	mux.HandleFunc("/accounts/1/locations/9/reviews/r1/reply", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	cl := gbp.New(ts.URL, 100)
	_, err := cl.ReplyToReview(context.Background(), "accounts/1/locations/9/reviews/r1", "x")
	if err == nil {
		t.Fatalf("expected error")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("write must not be retried, got %d attempts", n)
	}
}

func TestConnect_RejectsGarbageCredential(t *testing.T) {
	_, err := gbp.Connect(context.Background(), []byte("not json"), "", 5)
	if err == nil || !strings.Contains(err.Error(), "service account") {
		t.Fatalf("expected service account config error, got %v", err)
	}
}
