package app_test

import (
	"fmt"
	"strings"
	"testing"

	"review_replier/internal/app"
)

func TestCompose_StarPluralization(t *testing.T) {
	c := app.NewComposer("")
	for r := 1; r <= 5; r++ {
		out := c.Compose("Ana", r, "")
		want := fmt.Sprintf("%d stars", r)
		if r == 1 {
			want = "1 star"
		}
		if !strings.Contains(out, want) {
			t.Fatalf("rating %d: expected %q in %q", r, want, out)
		}
		if r == 1 && strings.Contains(out, "1 stars") {
			t.Fatalf("rating 1 must be singular, got %q", out)
		}
	}
}

func TestCompose_BucketOpenings(t *testing.T) {
	c := app.NewComposer("")
	cases := []struct {
		rating int
		want   string
	}{
		{5, "delighted you had an excellent experience"},
		{6, "delighted you had an excellent experience"}, // >=5 shares the top bucket
		{4, "We appreciate the feedback"},
		{3, "honest feedback and will work to improve"},
		{2, "sorry your experience was not ideal"},
		{1, "very sorry you had a bad experience"},
		{0, "very sorry you had a bad experience"}, // <=1 shares the bottom bucket
	}
	for _, tc := range cases {
		out := c.Compose("Ben", tc.rating, "")
		if !strings.Contains(out, tc.want) {
			t.Fatalf("rating %d: expected %q in %q", tc.rating, tc.want, out)
		}
		if !strings.Contains(out, "Hi Ben,") {
			t.Fatalf("rating %d: missing greeting in %q", tc.rating, out)
		}
	}
}

func TestCompose_Deterministic(t *testing.T) {
	c := app.NewComposer("")
	a := c.Compose("Kim", 3, "Visit us again!")
	b := c.Compose("Kim", 3, "Visit us again!")
	if a != b {
		t.Fatalf("compose is not deterministic:\n%q\n%q", a, b)
	}
}

func TestCompose_ExtraTextPlacement(t *testing.T) {
	c := app.NewComposer("")
	plain := c.Compose("Kim", 4, "")
	withExtra := c.Compose("Kim", 4, "See you soon.")

	opening := strings.TrimSuffix(plain, "\n\n"+app.DefaultSignature)
	want := opening + " See you soon.\n\n" + app.DefaultSignature
	if withExtra != want {
		t.Fatalf("extra text placement wrong:\ngot  %q\nwant %q", withExtra, want)
	}
	// empty extra must not introduce a trailing space before the signature
	if strings.Contains(plain, " \n\n") {
		t.Fatalf("unexpected trailing space in %q", plain)
	}
}

func TestCompose_CustomSignature(t *testing.T) {
	c := app.NewComposer("Team Acme")
	out := c.Compose("Kim", 5, "")
	if !strings.HasSuffix(out, "\n\nTeam Acme") {
		t.Fatalf("expected custom signature suffix, got %q", out)
	}
}

func TestFirstName(t *testing.T) {
	cases := map[string]string{
		"Ana Gomez":  "Ana",
		"  Lee  Kun": "Lee",
		"Solo":       "Solo",
		"":           "there",
		"   ":        "there",
	}
	for in, want := range cases {
		if got := app.FirstName(in); got != want {
			t.Fatalf("FirstName(%q) = %q, want %q", in, got, want)
		}
	}
}
