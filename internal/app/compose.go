package app

import (
	"fmt"
	"strings"
)

// DefaultSignature is the fixed sign-off appended to every drafted reply.
const DefaultSignature = "Team Salasar Services"

// Composer drafts canned replies by star rating. It is stateless; identical
// inputs always produce identical output.
type Composer struct {
	Signature string
}

func NewComposer(signature string) Composer {
	if signature == "" {
		signature = DefaultSignature
	}
	return Composer{Signature: signature}
}

// Compose builds the reply text for one review: a rating-bucket opening
// embedding the reviewer's first name, optional extra text separated by a
// single space, then the signature block.
func (c Composer) Compose(firstName string, rating int, extra string) string {
	starPart := fmt.Sprintf("%d stars", rating)
	if rating == 1 {
		starPart = "1 star"
	}

	var start string
	switch {
	case rating >= 5:
		start = fmt.Sprintf("Hi %s, Thank you for the %s review. We are delighted you had an excellent experience.", firstName, starPart)
	case rating == 4:
		start = fmt.Sprintf("Hi %s, Thank you for the %s review. We appreciate the feedback.", firstName, starPart)
	case rating == 3:
		start = fmt.Sprintf("Hi %s, Thank you for the %s review. We appreciate your honest feedback and will work to improve.", firstName, starPart)
	case rating == 2:
		start = fmt.Sprintf("Hi %s, We're sorry your experience was not ideal. Thank you for the %s review — we'll use this to improve.", firstName, starPart)
	default:
		start = fmt.Sprintf("Hi %s, We're very sorry you had a bad experience. Thank you for the %s review — please contact us so we can make it right.", firstName, starPart)
	}

	if extra != "" {
		return start + " " + extra + "\n\n" + c.Signature
	}
	return start + "\n\n" + c.Signature
}

// FirstName extracts the greeting name from a review author: the first
// whitespace-separated field, or "there" when the author is blank.
func FirstName(author string) string {
	if fs := strings.Fields(author); len(fs) > 0 {
		return fs[0]
	}
	return "there"
}
