package domain

import "strings"

// Review is a single customer review normalized across both backends.
// The key-based backend identifies reviews by author URL and never carries
// reply data; the credentialed backend provides a reviewId plus a full
// resource name usable for posting.
type Review struct {
	ID           string
	ResourceName string // "accounts/.../locations/.../reviews/..."; credentialed fetch only
	Author       string
	Rating       *int // 1..5, nil when the backend reported none
	Text         string
	Time         *int64 // unix seconds, key-based fetch only
	CreateTime   string // RFC3339, credentialed fetch only
	Reply        *string
}

// Answered reports whether the review already carries a reply. An absent or
// empty reply means unanswered; this is the only answered indicator.
func (r Review) Answered() bool {
	return r.Reply != nil && *r.Reply != ""
}

// Unanswered filters rs down to reviews without an existing reply, preserving order.
func Unanswered(rs []Review) []Review {
	out := make([]Review, 0, len(rs))
	for _, r := range rs {
		if !r.Answered() {
			out = append(out, r)
		}
	}
	return out
}

var starTokens = map[string]int{
	"ONE":   1,
	"TWO":   2,
	"THREE": 3,
	"FOUR":  4,
	"FIVE":  5,
}

// StarRating maps the word-coded starRating enum ("ONE".."FIVE",
// case-insensitive) to 1..5. Unknown tokens map to nil.
func StarRating(token string) *int {
	if n, ok := starTokens[strings.ToUpper(strings.TrimSpace(token))]; ok {
		return &n
	}
	return nil
}
