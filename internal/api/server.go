// Package api serves directory sessions over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/pbaille/localconnect/internal/directory"
	"github.com/pbaille/localconnect/internal/domain"
	"github.com/pbaille/localconnect/internal/events"
	"github.com/pbaille/localconnect/internal/i18n"
	"github.com/pbaille/localconnect/internal/pass"
	"github.com/pbaille/localconnect/internal/profile"
	"github.com/pbaille/localconnect/internal/query"
	"github.com/pbaille/localconnect/internal/session"
	"github.com/pbaille/localconnect/internal/view"
)

// Deps are the collaborators a Server is built from
type Deps struct {
	Source     directory.Source
	Sessions   *session.Manager
	Caller     *view.Caller
	Passes     *pass.Generator
	Profile    *profile.Store
	Events     *events.Store
	Translator *i18n.Translator
	PageSize   int
	Logger     *zap.Logger
}

// Server handles HTTP requests for the directory API
type Server struct {
	Deps
	handler http.Handler
}

// New creates a new API server
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.PageSize <= 0 {
		d.PageSize = view.DefaultPageSize
	}
	s := &Server{Deps: d}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	root := mux.NewRouter()
	router := root.PathPrefix("/api/v1").Subrouter()

	router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	router.HandleFunc("/profile", s.getProfile).Methods(http.MethodGet)
	router.HandleFunc("/profile", s.updateProfile).Methods(http.MethodPatch)
	router.HandleFunc("/login", s.login).Methods(http.MethodPost)
	router.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	router.HandleFunc("/categories", s.listCategories).Methods(http.MethodGet)

	// Sessions
	router.HandleFunc("/sessions", s.createSession).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}", s.getSession).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}", s.updateSession).Methods(http.MethodPatch)
	router.HandleFunc("/sessions/{id}", s.deleteSession).Methods(http.MethodDelete)
	router.HandleFunc("/sessions/{id}/view", s.sessionView).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}/favorites/{entryID}", s.toggleFavorite).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/calls/{entryID}", s.call).Methods(http.MethodPost)

	// Events
	router.HandleFunc("/events", s.listEvents).Methods(http.MethodGet)
	router.HandleFunc("/events", s.addEvent).Methods(http.MethodPost)
	router.HandleFunc("/events/{id}/interest", s.eventInterest).Methods(http.MethodPost)

	// Passes
	router.HandleFunc("/passes", s.createPass).Methods(http.MethodPost)

	router.Use(s.logRequests)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	return c.Handler(root)
}

// Handler returns the HTTP handler with CORS applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.Logger.Info("server stopped")
	return <-errCh
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"profile":   s.Profile.Profile(),
		"greeting":  s.Translator.T("home.greeting", map[string]string{"name": s.Profile.DisplayName()}),
		"logged_in": s.Profile.IsLoggedIn(),
	})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch profile.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeData(w, http.StatusOK, s.Profile.Update(patch))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.Profile.Login()
	s.getProfile(w, r)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.Profile.Logout()
	s.getProfile(w, r)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	entries, categories, err := directory.Load(r.Context(), s.Source)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, directory.CategoryCounts(entries, categories))
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	id, st := s.Sessions.Create()
	writeData(w, http.StatusCreated, map[string]any{"id": id, "state": st})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.Sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, st)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(mux.Vars(r)["id"]); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateRequest changes session state. Fields are applied in order:
// clear_category, category, search, sort, view.
type UpdateRequest struct {
	ClearCategory bool             `json:"clear_category,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Search        *string          `json:"search,omitempty"`
	Sort          *domain.SortKey  `json:"sort,omitempty"`
	View          *domain.ViewMode `json:"view,omitempty"`
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := s.Sessions.Apply(mux.Vars(r)["id"], func(st domain.QueryState) (domain.QueryState, error) {
		if req.ClearCategory {
			st = session.ClearCategory(st)
		}
		if req.Category != nil {
			st = session.SelectCategory(st, *req.Category)
		}
		if req.Search != nil {
			st = session.SetSearchText(st, *req.Search)
		}
		var err error
		if req.Sort != nil {
			if st, err = session.SetSortKey(st, *req.Sort); err != nil {
				return st, err
			}
		}
		if req.View != nil {
			if st, err = session.SetViewMode(st, *req.View); err != nil {
				return st, err
			}
		}
		return st, nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, st)
}

// ViewResponse is the rendered directory screen of a session
type ViewResponse struct {
	Kind           string                    `json:"kind"` // category or global
	Category       *domain.Category          `json:"category,omitempty"`
	Categories     []directory.CategoryCount `json:"categories,omitempty"`
	TotalCount     int                       `json:"total_count"`
	AvailableCount int                       `json:"available_count"`
	Labels         map[string]string         `json:"labels"`
	Projection     view.Projection           `json:"projection"`
}

func (s *Server) sessionView(w http.ResponseWriter, r *http.Request) {
	st, err := s.Sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	entries, categories, err := directory.Load(r.Context(), s.Source)
	if err != nil {
		s.fail(w, err)
		return
	}

	opts := view.Options{PageSize: s.PageSize}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		opts.Page = p
	}

	var resp ViewResponse
	if st.InCategory() {
		cv := query.DeriveCategoryView(entries, categories, st)
		resp = ViewResponse{
			Kind:           "category",
			Category:       cv.Category,
			TotalCount:     cv.TotalCount,
			AvailableCount: cv.AvailableCount,
			Projection:     view.Project(cv.Results, st, opts),
		}
	} else {
		results := query.GlobalSearch(entries, st.SearchText)
		resp = ViewResponse{
			Kind:       "global",
			TotalCount: len(results),
			Projection: view.ProjectGlobal(results, st, opts),
		}
		for _, e := range results {
			if e.IsAvailable() {
				resp.AvailableCount++
			}
		}
		if st.SearchText == "" {
			resp.Categories = directory.CategoryCounts(entries, categories)
		}
	}
	resp.Labels = s.labels(st, resp)

	writeData(w, http.StatusOK, resp)
}

func (s *Server) labels(st domain.QueryState, resp ViewResponse) map[string]string {
	params := map[string]string{
		"count":    strconv.Itoa(resp.TotalCount),
		"label":    resp.Projection.SortLabel,
		"category": strings.ToLower(st.SelectedCategory),
	}
	labels := map[string]string{
		"found":    s.Translator.T("directory.found", params),
		"sortedBy": s.Translator.T("directory.sortedBy", params),
	}
	params["count"] = strconv.Itoa(resp.AvailableCount)
	labels["available"] = s.Translator.T("directory.available", params)

	if st.InCategory() {
		labels["title"] = s.Translator.T("directory.professionals", map[string]string{"category": st.SelectedCategory})
	}
	if e := resp.Projection.Empty; e != nil {
		labels["emptyTitle"] = s.Translator.T(e.TitleKey, params)
		labels["emptyMessage"] = s.Translator.T(e.MessageKey, params)
	}
	return labels
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	st, err := s.Sessions.Apply(vars["id"], func(st domain.QueryState) (domain.QueryState, error) {
		return session.ToggleFavorite(st, vars["entryID"]), nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeData(w, http.StatusOK, st)
}

func (s *Server) call(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entries, err := s.Source.Entries(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	entry, err := directory.FindEntry(entries, vars["entryID"])
	if err != nil {
		s.fail(w, err)
		return
	}

	if err := view.CheckCallable(entry); err != nil {
		s.fail(w, err)
		return
	}

	// The call is recorded before dialing and kept if the dial fails. The
	// dial runs outside the session lock.
	st, err := s.Sessions.Apply(vars["id"], func(st domain.QueryState) (domain.QueryState, error) {
		return session.RegisterCall(st, entry.ID), nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	if dialErr := s.Caller.Dial(r.Context(), entry); dialErr != nil {
		writeJSON(w, http.StatusBadGateway, Response{Status: "error", Message: dialErr.Error(), Data: st})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Status:  "success",
		Message: s.Translator.T("directory.calling", map[string]string{"name": entry.Name}),
		Data:    st,
	})
}

// EventsResponse is the event board split into its two sections
type EventsResponse struct {
	Special []events.Event `json:"special"`
	Regular []events.Event `json:"regular"`
	Total   int            `json:"total"`
	Empty   string         `json:"empty,omitempty"`
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := events.Category(q.Get("category"))
	if category != "" && category != events.All && !category.Valid() {
		writeError(w, http.StatusBadRequest, "unknown event category")
		return
	}

	found := events.Filter(s.Events.List(), q.Get("search"), category)
	resp := EventsResponse{Total: len(found)}
	resp.Special, resp.Regular = events.Split(found)
	if len(found) == 0 {
		resp.Empty = s.Translator.T("events.noEventsFound", nil)
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) addEvent(w http.ResponseWriter, r *http.Request) {
	var d events.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := s.Events.Add(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{
		Status:  "success",
		Message: s.Translator.T("events.created", nil),
		Data:    e,
	})
}

func (s *Server) eventInterest(w http.ResponseWriter, r *http.Request) {
	e, err := s.Events.Find(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Status:  "success",
		Message: s.Translator.T("events.interested", map[string]string{"title": e.Title}),
		Data:    e,
	})
}

// PassResponse carries a generated pass and its QR image
type PassResponse struct {
	*pass.Pass
	Image string `json:"image"`
	Saved string `json:"saved,omitempty"`
}

func (s *Server) createPass(w http.ResponseWriter, r *http.Request) {
	var req pass.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.Passes.Generate(req)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := PassResponse{Pass: p, Image: p.Base64()}
	if r.URL.Query().Get("save") == "true" {
		if resp.Saved, err = s.Passes.Save(p); err != nil {
			s.fail(w, err)
			return
		}
	}
	writeData(w, http.StatusCreated, resp)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, err.Error())
}
