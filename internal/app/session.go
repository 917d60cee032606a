package app

import (
	"sync"

	"golang.org/x/sync/semaphore"

	"review_replier/internal/domain"
)

const (
	ModePlaces   = "places"
	ModeBusiness = "business"
)

// Draft is one unanswered review plus its editable reply and post toggle.
// Composed keeps the machine-drafted text so the global extra-text field can
// re-draft replies the user has not hand-edited.
type Draft struct {
	Review   domain.Review
	Text     string
	Composed string
	Post     bool
}

// Session is the transient per-user state: the connected write-capable client,
// the discovered account/location mapping, the last fetched review list and
// its drafts. It lives until process restart or an explicit reconnect.
//
// A weighted(1) semaphore serializes actions: one user action completes before
// another can start, so no overlapping network sequences mutate the state.
type Session struct {
	mu  sync.Mutex
	sem *semaphore.Weighted

	Mode     string
	PlaceID  string
	Client   domain.BusinessProfileClient
	Accounts []domain.Account
	Account  string
	Location string
	Total    int // reviews fetched by the last fetch action
	Drafts   []Draft
	Extra    string
	Flash    string
	Results  []domain.SubmitResult
}

func NewSession() *Session {
	return &Session{Mode: ModePlaces, sem: semaphore.NewWeighted(1)}
}

func (s *Session) begin() error {
	if !s.sem.TryAcquire(1) {
		return domain.ErrBusy
	}
	return nil
}

func (s *Session) end() { s.sem.Release(1) }

// SetFlash records a user-visible message for the next page render.
func (s *Session) SetFlash(msg string) {
	s.mu.Lock()
	s.Flash = msg
	s.mu.Unlock()
}

// TakeFlash returns and clears the pending flash message.
func (s *Session) TakeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.Flash
	s.Flash = ""
	return f
}

// SessionView is a render-safe copy of the session state.
type SessionView struct {
	Mode      string
	PlaceID   string
	Connected bool
	Accounts  []domain.Account
	Account   string
	Location  string
	Total     int
	Drafts    []Draft
	Extra     string
	Results   []domain.SubmitResult
}

func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := SessionView{
		Mode:      s.Mode,
		PlaceID:   s.PlaceID,
		Connected: s.Client != nil,
		Account:   s.Account,
		Location:  s.Location,
		Total:     s.Total,
		Extra:     s.Extra,
	}
	v.Accounts = append(v.Accounts, s.Accounts...)
	v.Drafts = append(v.Drafts, s.Drafts...)
	v.Results = append(v.Results, s.Results...)
	return v
}
