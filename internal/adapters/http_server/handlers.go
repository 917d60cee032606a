package httpserver

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"review_replier/internal/adapters/observability"
	"review_replier/internal/app"
	"review_replier/internal/domain"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"stars": func(r *int) string {
		if r == nil {
			return "unrated"
		}
		if *r == 1 {
			return "1 star"
		}
		return fmt.Sprintf("%d stars", *r)
	},
}).Parse(indexHTML))

type Handlers struct {
	Svc      *app.Service
	Sessions *Registry
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.index)
	s.mux.Post("/actions/mode", h.setMode)
	s.mux.Post("/actions/fetch-places", h.fetchPlaces)
	s.mux.Post("/actions/connect", h.connect)
	s.mux.Post("/actions/fetch-location", h.fetchLocation)
	s.mux.Post("/actions/post", h.postReplies)
}

type pageData struct {
	Flash             string
	HasAPIKey         bool
	HasServiceAccount bool
	View              app.SessionView
	ResultsJSON       string
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Session(w, r)
	v := s.View()

	data := pageData{
		Flash:             s.TakeFlash(),
		HasAPIKey:         h.Svc.HasPlaces(),
		HasServiceAccount: h.Svc.HasBusiness(),
		View:              v,
	}
	if len(v.Results) > 0 {
		if b, err := json.MarshalIndent(v.Results, "", "  "); err == nil {
			data.ResultsJSON = string(b)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("render index failed")
	}
}

// finish flashes the action outcome and redirects back to the page. A busy
// session is the one case reported as a direct HTTP error: the client tried
// to overlap actions, which the flow forbids.
func (h *Handlers) finish(w http.ResponseWriter, r *http.Request, s *app.Session, err error, okMsg string) {
	switch {
	case err == nil:
		if okMsg != "" {
			s.SetFlash(okMsg)
		}
	case errors.Is(err, domain.ErrBusy):
		writeProblem(w, http.StatusConflict, "Busy", "another action is in progress; retry when it finishes")
		return
	default:
		log.Warn().Err(err).Str("action", r.URL.Path).Msg("action failed")
		s.SetFlash("Error: " + err.Error())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) setMode(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Session(w, r)
	h.Svc.SetMode(s, r.FormValue("mode"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) fetchPlaces(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Session(w, r)
	err := h.Svc.FetchPlaces(r.Context(), s, r.FormValue("place_id"))
	var ok string
	if err == nil {
		ok = fmt.Sprintf("Fetched %d reviews (the Places endpoint returns only recent reviews).", s.View().Total)
	}
	h.finish(w, r, s, err, ok)
}

func (h *Handlers) connect(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Session(w, r)
	err := h.Svc.Connect(r.Context(), s)
	h.finish(w, r, s, err, "Connected.")
}

func (h *Handlers) fetchLocation(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Session(w, r)
	err := h.Svc.FetchLocation(r.Context(), s, r.FormValue("account"), r.FormValue("location"))
	var ok string
	if err == nil {
		ok = fmt.Sprintf("Fetched %d reviews.", s.View().Total)
	}
	h.finish(w, r, s, err, ok)
}

func (h *Handlers) postReplies(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Session(w, r)
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Form", err.Error())
		return
	}

	texts, selected := draftEdits(r)
	h.Svc.ApplyDrafts(s, texts, selected, r.FormValue("extra"))

	results, err := h.Svc.PostSelected(r.Context(), s)
	if err != nil {
		h.finish(w, r, s, err, "")
		return
	}

	var posted, skipped, failed int
	for _, res := range results {
		observability.ObserveSubmission(string(res.Status))
		switch res.Status {
		case domain.SubmitPosted:
			posted++
		case domain.SubmitSkipped:
			skipped++
		case domain.SubmitFailed:
			failed++
		}
	}
	h.finish(w, r, s, nil, fmt.Sprintf("Posted %d, skipped %d, failed %d.", posted, skipped, failed))
}

// draftEdits extracts the per-review form fields: reply_<i> textareas and
// post_<i> checkboxes (absent checkbox means deselected).
func draftEdits(r *http.Request) (map[int]string, map[int]bool) {
	texts := make(map[int]string)
	selected := make(map[int]bool)
	for key, vals := range r.PostForm {
		var idx int
		var err error
		switch {
		case strings.HasPrefix(key, "reply_"):
			if idx, err = strconv.Atoi(key[len("reply_"):]); err == nil && len(vals) > 0 {
				texts[idx] = vals[0]
			}
		case strings.HasPrefix(key, "post_"):
			if idx, err = strconv.Atoi(key[len("post_"):]); err == nil {
				selected[idx] = true
			}
		}
	}
	return texts, selected
}
