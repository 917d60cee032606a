package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "review_replier/internal/adapters/redis"
	"review_replier/internal/domain"
)

func newCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_SetGetDel(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	accounts := []domain.Account{
		{Name: "accounts/1", Locations: []domain.Location{{Name: "accounts/1/locations/9", StoreCode: "HQ"}}},
	}
	if err := c.Set(ctx, "accounts:sa@proj.iam", accounts, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got []domain.Account
	ok, err := c.Get(ctx, "accounts:sa@proj.iam", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].Name != "accounts/1" || got[0].Locations[0].StoreCode != "HQ" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := c.Del(ctx, "accounts:sa@proj.iam"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "accounts:sa@proj.iam", &got)
	if err != nil || ok {
		t.Fatalf("expected miss after del: ok=%v err=%v", ok, err)
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := newCache(t)
	var got []domain.Account
	ok, err := c.Get(context.Background(), "accounts:nobody", &got)
	if err != nil || ok {
		t.Fatalf("expected clean miss: ok=%v err=%v", ok, err)
	}
}
