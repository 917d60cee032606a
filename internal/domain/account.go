package domain

// Location is one business location under an account.
type Location struct {
	Name      string // resource name, "accounts/{a}/locations/{l}"
	StoreCode string
}

// Account pairs an account resource name with its discovered locations.
type Account struct {
	Name      string
	Locations []Location
}

// SoleLocation returns the location to use for resource-name synthesis when a
// fetched review lacks a direct resource name: the first account with exactly
// one location. Zero or ambiguous locations yield ok=false and the review is
// skipped, not guessed at.
func SoleLocation(accounts []Account) (Location, bool) {
	for _, a := range accounts {
		if len(a.Locations) == 1 {
			return a.Locations[0], true
		}
	}
	return Location{}, false
}
